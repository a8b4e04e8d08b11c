// Package seed loads the fixed campaign payloads into an empty fact store.
package seed

import (
	"context"
	"time"

	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/observability"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/storage"
)

// Loader writes the built-in campaign dataset into the fact store.
type Loader struct {
	store  *storage.Store
	logger *observability.Logger
}

// NewLoader creates a Loader.
func NewLoader(store *storage.Store, logger *observability.Logger) *Loader {
	return &Loader{store: store, logger: logger.WithComponent("seed")}
}

// EnsureSeeded loads the dataset only when the store holds zero items, so a
// restart never clobbers content added since the last seeding. It returns
// the number of items written, zero when seeding was skipped.
func (l *Loader) EnsureSeeded(ctx context.Context) (int, error) {
	stats, err := l.store.Statistics(ctx)
	if err != nil {
		return 0, err
	}
	if stats.TotalItems > 0 {
		l.logger.Info().Int("existing_items", stats.TotalItems).Msg("Store already populated, skipping seed")
		return 0, nil
	}
	return l.Reload(ctx)
}

// Reload unconditionally upserts every built-in item. Existing items with
// the same ids are replaced; anything else is left alone.
func (l *Loader) Reload(ctx context.Context) (int, error) {
	items := Items()
	for _, item := range items {
		if err := l.store.Upsert(ctx, item); err != nil {
			return 0, err
		}
	}
	l.logger.Info().Int("items", len(items)).Msg("Seeded knowledge store")
	return len(items), nil
}

// Items returns fresh copies of the built-in dataset: FAQs, news articles,
// policy positions, biography entries, and Spanish translations of the two
// most-asked questions.
func Items() []*storage.KnowledgeItem {
	var items []*storage.KnowledgeItem
	items = append(items, faqs()...)
	items = append(items, newsArticles()...)
	items = append(items, policies()...)
	items = append(items, biographies()...)
	items = append(items, spanishContent()...)
	return items
}

func campaignSource(url, title, sourceType, language string) storage.KnowledgeSource {
	return storage.KnowledgeSource{
		URL:         url,
		Title:       title,
		SourceType:  sourceType,
		Credibility: storage.CredibilityPrimary,
		Language:    language,
	}
}

func faq(id, topic, subtopic, content string, keywords []string) *storage.KnowledgeItem {
	item := &storage.KnowledgeItem{
		ID:              id,
		Content:         content,
		ContentType:     storage.ContentTypeFAQ,
		Topic:           topic,
		Keywords:        keywords,
		Sources:         []storage.KnowledgeSource{campaignSource("https://www.ali2025.com/", "Ali 2025 Campaign FAQ", "campaign_website", "en")},
		ConfidenceScore: 1.0,
		Language:        "en",
	}
	if subtopic != "" {
		item.Subtopic = &subtopic
	}
	return item
}

func faqs() []*storage.KnowledgeItem {
	return []*storage.KnowledgeItem{
		faq("faq_experience", "candidate_qualifications", "",
			"While Mussab is young (he's 28 and the only candidate running under 40), he is also ridiculously accomplished. After the Covid-19 pandemic, he went to Harvard Law School, beat cancer, was elected to the school board (the only mayoral candidate to hold city-wide office in Jersey City), and was then elected the youngest school board president in Jersey City history. He's young, but we think of that as a feature, not a bug for someone as accomplished as him!",
			[]string{"experience", "young", "age", "Harvard", "school board", "president", "accomplished", "inexperienced", "qualify", "qualified", "too young"}),
		faq("faq_policies", "policy_platform", "",
			"Check out our website! Mussab has a lot of great, detailed policy explanations for what he'd do in office. Everything from expanding bus service citywide to criminal justice reform in Jersey City. You will see detailed policies backed by data and a clear understanding of what matters to Jersey City residents.",
			[]string{"talking points", "policy", "policies", "proposals", "concrete", "detailed", "plan", "plans"}),
		faq("faq_taxes_detailed", "education", "school_budget",
			"I totally get it, no one likes opening their tax bill and seeing a higher number. The reality is that when Mussab was school board president, Trenton cut more than $150 million in state aid to our schools. That left Jersey City kids getting thousands of dollars less per student than New Jersey itself says is adequate. Mussab faced a tough choice: either raise the local share a bit to keep teachers, counselors, and after-school programs, or let class sizes explode and watch our property values drop. He chose to protect our kids and our home equity, but he didn't write a blank check. He trimmed non-essential spending, pushed for cost controls, and even sued the State to get our aid restored; no other trustee did that. And he's still holding the line: just this spring he called out a proposed 20% school-tax hike as 'unacceptable,' proving he'll challenge waste even when he's not on the board. The payoff is real. Strong schools keep neighborhoods safe and property values high; a few hundred dollars now can safeguard tens of thousands in equity later. And as mayor, Mussab's plan goes further: enforce the payroll-tax law so big corporations pay their fair share, pursue a vacancy tax on speculators, and launch a joint City Hall-BOE finance task force with public dashboards so every resident can see where each dollar goes. Mussab believes Jersey City shouldn't have to choose between great schools or affordable living. He's already shown he'll make the tough calls to protect both our kids and our wallets; that's exactly the balance we need in City Hall.",
			[]string{"taxes", "budget", "increase", "higher", "expensive", "cost", "money", "school board", "state aid", "Trenton", "teachers", "property values"}),
		faq("faq_corruption", "ethics", "",
			"Mussab was president of the school board during the pandemic, he went to law school and has been running for mayor during the current scandals. When Mussab was president, the school board was a reputable organization. He will institute that same reputability to the mayor's office when he wins this year.",
			[]string{"corruption", "corrupt", "scandal", "ethics", "dishonest", "school board"}),
		faq("faq_serious_candidate", "candidate_viability", "",
			"Absolutely, Mussab is consistently one of the top fundraisers in the race, has had national figures such as Keith Ellison, Ilhan Omar, and Ro Khanna supporting his campaign and is the only candidate in this race who has successfully won an election for a city-wide office in Jersey City.",
			[]string{"serious", "haven't heard", "unknown", "candidate", "fundraising", "support", "Keith Ellison", "Ilhan Omar", "Ro Khanna"}),
		faq("faq_faith", "personal_background", "",
			"Mussab's Islamic faith is a core part of who he is and he doesn't want to shy away from it. Of course, Mussab is running for a Jersey City for all, regardless of faith, color, or creed. That said, he doesn't want to hide who he is; his faith is a core reason he was called to public service when our incumbent President insulted Jersey City by lying and saying that people like Mussab's parents celebrated 9/11. Mussab runs for the dignity of all people to ensure bigots like our current president don't have the final say on our city.",
			[]string{"faith", "religion", "islamic", "muslim", "mention", "important", "9/11", "dignity"}),
		faq("faq_safety", "public_safety", "",
			"Mussab is going to continue to invest in our police department while holding them accountable. We need accountable law enforcement, not just a department with a blank check. Jersey City ranks among the lowest of New Jersey cities in police accountability when complaints are received. We need to stop this while ensuring that citizens feel safe. This isn't hard to do; it just requires leadership that demands accountability and results.",
			[]string{"dangerous", "safety", "crime", "police", "law enforcement", "security", "accountability"}),
		faq("faq_transit", "transportation", "",
			"Mussab is adding bus lines and making city buses free for all. He is additionally going to demand a share of congestion pricing revenue to reinvest in our city.",
			[]string{"transit", "bus", "transportation", "expensive", "quality", "public transport", "free buses", "congestion pricing"}),
		faq("faq_housing", "housing", "",
			"Mussab is committing to expand zoning to allow more residential construction and approve over 25,000 units to meet the demand of Jersey City residents. He also will ensure that all new buildings have affordable housing units, will cap rent increases by developers, and will prioritize Jersey City residents for affordable housing.",
			[]string{"housing", "rent", "afford", "expensive", "house", "apartment", "affordable", "zoning", "25000 units", "rent cap"}),
		faq("faq_jobs", "economy", "job_creation",
			"Mussab is committed to bringing high paying jobs to Jersey City and ensuring that residents get access to the best job training services possible. Mussab increased teacher pay significantly during his tenure as school board president and looks forward to doing the same for all Jersey City residents, while making Jersey City the best place to do business with policies such as permitting reform.",
			[]string{"jobs", "employment", "wage", "salary", "work", "career", "training", "high paying", "job training", "permitting reform"}),
		faq("faq_schools", "education", "school_quality",
			"Mussab was president of the school board so he understands better than anyone else running in this race what it takes to run our public schools and improve them. Graduation rates rose significantly during his tenure, he improved teacher pay, removed lead from drinking water, and provided prescription glasses to students free of charge.",
			[]string{"schools", "education", "kids", "children", "students", "teachers", "learning", "graduation rates", "lead", "glasses"}),
		faq("faq_climate", "environment", "",
			"Mussab is prioritizing public transit options (including free city-wide buses) and bike access infrastructure as Mayor to ensure that we continue to improve on the air quality and environmental friendliness of Jersey City.",
			[]string{"climate", "environment", "green", "sustainability", "carbon", "pollution", "bike infrastructure", "air quality"}),
		faq("faq_corruption_general", "governance", "ethics_reform",
			"Mussab is committed to ending pay-to-play politics. You don't get a seat at the table just because you donated to his campaign. We need to turn city contracts into a meritocracy. It reduces costs for Jersey City residents and ensures our community gets the best service.",
			[]string{"corruption", "pay-to-play", "contracts", "politics", "ethics", "transparency", "meritocracy"}),
	}
}

func newsArticle(id, topic, subtopic, title, url, author, published, content string, keywords []string) *storage.KnowledgeItem {
	date, _ := time.Parse("2006-01-02", published)
	item := &storage.KnowledgeItem{
		ID:          id,
		Content:     content,
		ContentType: storage.ContentTypeNewsArticle,
		Topic:       topic,
		Keywords:    keywords,
		Sources: []storage.KnowledgeSource{{
			URL:         url,
			Title:       title,
			SourceType:  "news_article",
			Credibility: storage.CredibilityVerified,
			PublishedAt: &date,
			Author:      &author,
			Language:    "en",
		}},
		ConfidenceScore: 0.9,
		Language:        "en",
	}
	if subtopic != "" {
		item.Subtopic = &subtopic
	}
	return item
}

func newsArticles() []*storage.KnowledgeItem {
	return []*storage.KnowledgeItem{
		newsArticle("jc_times_budget_2020", "education", "school_budget",
			"School Board Approves $736 Million Budget Proposal Representing a 47% Increase in the School Tax Levy",
			"https://jcitytimes.com/school-board-approves-736-million-budget-proposal-representing-a-47-increase-in-the-school-tax-levy/",
			"Sally Deering", "2020-03-23",
			"Jersey City Board of Education approved a $736 million budget proposal representing a 47% increase in the school tax levy. If approved, it would increase the school tax levy (the part of assessed property taxes allocated to the public schools) $64 million, bringing the levy to $201 million. The budget was necessary due to significant cuts in state aid.",
			[]string{"school board", "budget", "tax levy", "47%", "increase", "$736 million", "state aid cuts"}),
		newsArticle("hudson_view_ali_criticism_2025", "education", "fiscal_oversight",
			"Ali tees off on Jersey City BOE: 'This budget will result in a $90 million tax increase'",
			"https://hudsoncountyview.com/ali-tees-off-on-jersey-city-boe-this-budget-will-result-in-a-90-million-tax-increase/",
			"John Heinis", "2025-03-24",
			"Jersey City mayoral candidate Mussab Ali is teeing off on the board of education's preliminary $1,027,273,122 budget with a roughly 20 percent tax increase, calling the spending plan 'unacceptable' since it 'will result in a $90 million tax increase.' This demonstrates Ali's continued fiscal watchdog role even after leaving the school board.",
			[]string{"Ali", "BOE", "budget", "20 percent", "tax increase", "$90 million", "unacceptable", "fiscal watchdog"}),
		newsArticle("jc_times_joint_session_2021", "education", "funding_crisis",
			"Budget Crisis Solutions Discussed at Second Joint Session",
			"https://jcitytimes.com/budget-crisis-solutions-discussed-at-second-joint-session/",
			"Andrea Crowley-Hughes", "2021-05-06",
			"Jersey City Board of Education and city council representatives met for the second time, with Board President Mussab Ali stating that school funding is the most important issue facing the city over the next three years. The meeting addressed ongoing budget crisis solutions.",
			[]string{"Mussab Ali", "school funding", "most important issue", "budget crisis", "joint session", "board president"}),
	}
}

func policy(id, topic, subtopic, content string, keywords []string) *storage.KnowledgeItem {
	return &storage.KnowledgeItem{
		ID:              id,
		Content:         content,
		ContentType:     storage.ContentTypePolicy,
		Topic:           topic,
		Subtopic:        &subtopic,
		Keywords:        keywords,
		Sources:         []storage.KnowledgeSource{campaignSource("https://www.ali2025.com/policies", "Ali 2025 Policy Platform", "campaign_policy", "en")},
		ConfidenceScore: 1.0,
		Language:        "en",
	}
}

func policies() []*storage.KnowledgeItem {
	return []*storage.KnowledgeItem{
		policy("policy_housing_comprehensive", "housing", "comprehensive_plan",
			"Mussab's housing policy includes expanding zoning to allow more residential construction, approving over 25,000 housing units to meet demand, ensuring all new buildings include affordable housing units, capping rent increases by developers, prioritizing Jersey City residents for affordable housing, and implementing a vacancy tax on speculators. The goal is to make Jersey City affordable for working families while maintaining neighborhood character.",
			[]string{"zoning expansion", "25000 units", "affordable housing", "rent cap", "vacancy tax", "working families", "neighborhood character"}),
		policy("policy_transportation_free_buses", "transportation", "free_transit",
			"Mussab proposes making all city buses completely free for residents, expanding bus routes citywide, improving frequency and reliability, and demanding Jersey City's fair share of congestion pricing revenue to reinvest in local transportation infrastructure. This policy aims to reduce car dependency, improve air quality, and make transportation accessible to all residents regardless of income.",
			[]string{"free buses", "citywide routes", "congestion pricing", "car dependency", "air quality", "accessible transportation"}),
		policy("policy_police_accountability", "public_safety", "police_reform",
			"Mussab's public safety plan focuses on continuing investment in police while demanding accountability. Jersey City ranks among the lowest in New Jersey for police accountability when complaints are received. The plan includes transparent complaint processes, community oversight, data-driven policing strategies, and ensuring public safety while building community trust.",
			[]string{"police accountability", "community oversight", "transparent processes", "data-driven policing", "community trust", "public safety"}),
		policy("policy_ethics_reform", "governance", "ethics_reform",
			"Mussab is committed to ending pay-to-play politics in Jersey City. His ethics platform includes turning city contracts into a merit-based system, creating public dashboards for budget transparency, establishing strict conflict of interest rules, and ensuring that campaign donations don't influence government decisions. This will reduce costs for residents and ensure the city gets the best services.",
			[]string{"pay-to-play", "merit-based contracts", "public dashboards", "transparency", "conflict of interest", "campaign donations"}),
	}
}

func biography(id, topic, subtopic, content string, keywords []string) *storage.KnowledgeItem {
	return &storage.KnowledgeItem{
		ID:              id,
		Content:         content,
		ContentType:     storage.ContentTypeBiography,
		Topic:           topic,
		Subtopic:        &subtopic,
		Keywords:        keywords,
		Sources:         []storage.KnowledgeSource{campaignSource("https://www.ali2025.com/about", "About Mussab Ali", "campaign_biography", "en")},
		ConfidenceScore: 1.0,
		Language:        "en",
	}
}

func biographies() []*storage.KnowledgeItem {
	return []*storage.KnowledgeItem{
		biography("bio_education_harvard", "personal_background", "education",
			"Mussab Ali attended Harvard Law School after the COVID-19 pandemic, demonstrating his commitment to public service and legal expertise. His legal education provides him with the knowledge and skills necessary to navigate complex municipal law and policy issues as mayor.",
			[]string{"Harvard Law School", "legal education", "COVID-19", "municipal law", "policy expertise"}),
		biography("bio_health_journey", "personal_background", "health_journey",
			"Mussab Ali is a cancer survivor who overcame significant health challenges while pursuing his education and public service career. This experience has given him resilience, perspective, and a deep understanding of healthcare challenges facing Jersey City residents.",
			[]string{"cancer survivor", "health challenges", "resilience", "healthcare", "personal experience"}),
		biography("bio_school_board_service", "public_service", "school_board",
			"Mussab Ali served as Jersey City School Board President, making him the youngest person ever elected to that position. During his tenure, he oversaw significant improvements including rising graduation rates, increased teacher pay, removal of lead from school drinking water, and providing free prescription glasses to students. He is the only mayoral candidate to have held city-wide elected office in Jersey City.",
			[]string{"school board president", "youngest elected", "graduation rates", "teacher pay", "lead removal", "prescription glasses", "city-wide office"}),
		biography("bio_age_generation", "personal_background", "generational_change",
			"At 28 years old, Mussab Ali is the only mayoral candidate under 40, representing a new generation of leadership for Jersey City. His youth is coupled with significant accomplishments and a fresh perspective on the challenges facing the city's diverse, growing population.",
			[]string{"28 years old", "under 40", "new generation", "fresh perspective", "diverse population", "young leader"}),
	}
}

func spanishContent() []*storage.KnowledgeItem {
	return []*storage.KnowledgeItem{
		{
			ID:              "faq_experience_es",
			Content:         "Aunque Mussab es joven (tiene 28 años y es el único candidato menor de 40), también es increíblemente talentoso. Después de la pandemia de COVID-19, fue a la Escuela de Derecho de Harvard, venció el cáncer, fue elegido para la junta escolar (el único candidato a alcalde que ocupó un cargo en toda la ciudad en Jersey City), y luego fue elegido como el presidente de junta escolar más joven en la historia de Jersey City. Es joven, pero pensamos que eso es una ventaja, no un defecto para alguien tan talentoso como él.",
			ContentType:     storage.ContentTypeFAQ,
			Topic:           "candidate_qualifications",
			Keywords:        []string{"experiencia", "joven", "edad", "Harvard", "junta escolar", "presidente", "talentoso"},
			Sources:         []storage.KnowledgeSource{campaignSource("https://www.ali2025.com/es", "Campaña Ali 2025", "campaign_website", "es")},
			ConfidenceScore: 1.0,
			Language:        "es",
		},
		{
			ID:              "faq_housing_es",
			Content:         "Mussab se compromete a expandir la zonificación para permitir más construcción residencial y aprobar más de 25,000 unidades para satisfacer la demanda de los residentes de Jersey City. También se asegurará de que todos los nuevos edificios tengan unidades de vivienda asequible, limitará los aumentos de alquiler por parte de los desarrolladores y priorizará a los residentes de Jersey City para viviendas asequibles.",
			ContentType:     storage.ContentTypeFAQ,
			Topic:           "housing",
			Keywords:        []string{"vivienda", "alquiler", "asequible", "apartamentos", "casas", "zonificación", "25000 unidades"},
			Sources:         []storage.KnowledgeSource{campaignSource("https://www.ali2025.com/es", "Campaña Ali 2025", "campaign_website", "es")},
			ConfidenceScore: 1.0,
			Language:        "es",
		},
	}
}
