package retrieval

import "strings"

// topicHierarchy maps campaign topics to their subtopics. The map is
// treated as immutable after init; matching reads it concurrently.
var topicHierarchy = map[string][]string{
	"education":      {"school_budget", "teacher_pay", "graduation_rates", "school_safety", "curriculum"},
	"housing":        {"affordable_housing", "rent_control", "zoning", "development", "homelessness"},
	"transportation": {"bus_service", "bike_lanes", "traffic", "parking", "congestion_pricing"},
	"public_safety":  {"police_reform", "crime_prevention", "community_policing", "emergency_services"},
	"economy":        {"job_creation", "small_business", "taxation", "budget", "development"},
	"environment":    {"climate_change", "green_energy", "sustainability", "pollution", "parks"},
	"healthcare":     {"public_health", "mental_health", "healthcare_access", "insurance"},
	"governance":     {"transparency", "accountability", "ethics", "civic_engagement"},
}

// multilingualKeywords maps a topic to per-language keyword lists. The
// English list is the expansion target: a non-English query word that
// appears in a topic's translation pulls in that topic's full English list.
var multilingualKeywords = map[string]map[string][]string{
	"education": {
		LanguageEnglish: {"education", "schools", "teachers", "students", "learning", "graduation", "classroom"},
		LanguageSpanish: {"educación", "escuelas", "maestros", "estudiantes", "aprendizaje", "graduación", "aula"},
		LanguageArabic:  {"التعليم", "المدارس", "المعلمين", "الطلاب", "التعلم", "التخرج", "الفصول الدراسية"},
		LanguageFrench:  {"éducation", "écoles", "enseignants", "étudiants", "apprentissage", "diplômation", "salle de classe"},
	},
	"housing": {
		LanguageEnglish: {"housing", "rent", "affordable", "apartments", "homes", "real estate", "landlord"},
		LanguageSpanish: {"vivienda", "alquiler", "asequible", "apartamentos", "casas", "bienes raíces", "propietario"},
		LanguageArabic:  {"الإسكان", "الإيجار", "ميسور التكلفة", "الشقق", "المنازل", "العقارات", "المالك"},
		LanguageFrench:  {"logement", "loyer", "abordable", "appartements", "maisons", "immobilier", "propriétaire"},
	},
	"transportation": {
		LanguageEnglish: {"transportation", "transit", "buses", "trains", "traffic", "roads", "public transport"},
		LanguageSpanish: {"transporte", "tránsito", "autobuses", "trenes", "tráfico", "carreteras", "transporte público"},
		LanguageArabic:  {"النقل", "المواصلات", "الحافلات", "القطارات", "المرور", "الطرق", "النقل العام"},
		LanguageFrench:  {"transport", "transit", "autobus", "trains", "circulation", "routes", "transport public"},
	},
	"safety": {
		LanguageEnglish: {"safety", "crime", "police", "security", "violence", "law enforcement"},
		LanguageSpanish: {"seguridad", "crimen", "policía", "seguridad", "violencia", "aplicación de la ley"},
		LanguageArabic:  {"الأمان", "الجريمة", "الشرطة", "الأمن", "العنف", "إنفاذ القانون"},
		LanguageFrench:  {"sécurité", "crime", "police", "sécurité", "violence", "application de la loi"},
	},
	"economy": {
		LanguageEnglish: {"economy", "jobs", "employment", "wages", "business", "taxes", "budget"},
		LanguageSpanish: {"economía", "empleos", "empleo", "salarios", "negocios", "impuestos", "presupuesto"},
		LanguageArabic:  {"الاقتصاد", "الوظائف", "التوظيف", "الأجور", "الأعمال", "الضرائب", "الميزانية"},
		LanguageFrench:  {"économie", "emplois", "emploi", "salaires", "entreprises", "taxes", "budget"},
	},
}

// MatchTopics returns the topics whose name or any subtopic (underscores
// read as spaces) appears as a substring of the lower-cased query. Order
// is deterministic but duplicates may occur when both a topic name and one
// of its subtopics match; callers treat the result as a set.
func MatchTopics(query string) []string {
	queryLower := strings.ToLower(query)

	var matched []string
	for _, topic := range orderedTopics {
		if strings.Contains(queryLower, topic) {
			matched = append(matched, topic)
		}
		for _, subtopic := range topicHierarchy[topic] {
			phrase := strings.ReplaceAll(subtopic, "_", " ")
			if strings.Contains(queryLower, phrase) {
				matched = append(matched, topic)
			}
		}
	}
	return matched
}

// ExpandKeywords maps non-English query words to English keyword lists. A
// query word matching any translation of a topic (case-insensitive) pulls
// in that topic's complete English word list. The result preserves topic
// order and deduplicates words.
func ExpandKeywords(query, language string) []string {
	if language == LanguageEnglish {
		return nil
	}

	words := strings.Fields(strings.ToLower(query))

	seen := map[string]struct{}{}
	var expanded []string
	for _, topic := range orderedKeywordTopics {
		translations := multilingualKeywords[topic][language]
		if len(translations) == 0 {
			continue
		}
		if !anyWordMatches(words, translations) {
			continue
		}
		for _, en := range multilingualKeywords[topic][LanguageEnglish] {
			if _, dup := seen[en]; !dup {
				seen[en] = struct{}{}
				expanded = append(expanded, en)
			}
		}
	}
	return expanded
}

func anyWordMatches(words, translations []string) bool {
	for _, w := range words {
		for _, t := range translations {
			if w == strings.ToLower(t) {
				return true
			}
		}
	}
	return false
}

// Fixed iteration orders keep matching deterministic across runs; Go map
// iteration is randomized.
var (
	orderedTopics = []string{
		"education", "housing", "transportation", "public_safety",
		"economy", "environment", "healthcare", "governance",
	}
	orderedKeywordTopics = []string{
		"education", "housing", "transportation", "safety", "economy",
	}
)
