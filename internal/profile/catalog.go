package profile

import (
	"fmt"
	"slices"
)

type Domain string

const (
	DomainDemographics Domain = "demographics"
	DomainEconomics    Domain = "economics"
	DomainEducation    Domain = "education"
	DomainCulture      Domain = "culture"
)

// Unit says what a dataset's values count.
type Unit string

const (
	UnitPopulation Unit = "population"
	UnitHouseholds Unit = "households"
)

var Genders = []string{"male", "female", "other"}

type Category struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	LabelNe string `json:"label_ne,omitempty"`
}

// Dataset describes one ward x category table and the page that renders it.
type Dataset struct {
	Key           string     `json:"key"`
	Slug          string     `json:"slug"`
	Domain        Domain     `json:"domain"`
	Title         string     `json:"title"`
	TitleNe       string     `json:"title_ne"`
	Description   string     `json:"description"`
	Unit          Unit       `json:"unit"`
	CategoryLabel string     `json:"category_label"`
	HasGender     bool       `json:"has_gender"`
	Categories    []Category `json:"categories"`
	Keywords      []string   `json:"keywords"`
}

func (d Dataset) Path() string {
	return fmt.Sprintf("/profile/%s/%s", d.Domain, d.Slug)
}

func (d Dataset) LocalTitle(locale string) string {
	if locale == "ne" && d.TitleNe != "" {
		return d.TitleNe
	}
	return d.Title
}

func (d Dataset) HasCategory(key string) bool {
	return slices.ContainsFunc(d.Categories, func(c Category) bool { return c.Key == key })
}

// Label resolves a category key; unknown keys are returned unchanged.
func (d Dataset) Label(key, locale string) string {
	for _, c := range d.Categories {
		if c.Key == key {
			if locale == "ne" && c.LabelNe != "" {
				return c.LabelNe
			}
			return c.Label
		}
	}
	return key
}

// CategoryOrder returns the catalog position of key, or len(Categories) when unknown.
func (d Dataset) CategoryOrder(key string) int {
	for i, c := range d.Categories {
		if c.Key == key {
			return i
		}
	}
	return len(d.Categories)
}

func (d Dataset) ValidGender(g string) bool {
	if !d.HasGender {
		return g == ""
	}
	return slices.Contains(Genders, g)
}

func WardLabel(n int) string {
	return fmt.Sprintf("Ward %d", n)
}

// Lookup finds a dataset by key.
func Lookup(key string) (Dataset, bool) {
	for _, d := range catalog {
		if d.Key == key {
			return d, true
		}
	}
	return Dataset{}, false
}

// LookupPage finds the dataset rendered at /profile/{domain}/{slug}.
func LookupPage(domain Domain, slug string) (Dataset, bool) {
	for _, d := range catalog {
		if d.Domain == domain && d.Slug == slug {
			return d, true
		}
	}
	return Dataset{}, false
}

func ParseDomain(s string) (Domain, bool) {
	d := Domain(s)
	return d, slices.Contains(Domains, d)
}

func Datasets() []Dataset {
	return slices.Clone(catalog)
}

func DatasetsByDomain(domain Domain) []Dataset {
	var out []Dataset
	for _, d := range catalog {
		if d.Domain == domain {
			out = append(out, d)
		}
	}
	return out
}

var Domains = []Domain{DomainDemographics, DomainEconomics, DomainEducation, DomainCulture}

func DomainTitle(d Domain, locale string) string {
	titles := map[Domain][2]string{
		DomainDemographics: {"Demographics", "जनसांख्यिकी"},
		DomainEconomics:    {"Economics", "आर्थिक अवस्था"},
		DomainEducation:    {"Education", "शिक्षा"},
		DomainCulture:      {"Culture", "संस्कृति"},
	}
	t := titles[d]
	if locale == "ne" {
		return t[1]
	}
	return t[0]
}

const (
	DatasetAgeGroups        = "age-groups"
	DatasetCaste            = "caste"
	DatasetReligion         = "religion"
	DatasetMotherTongue     = "mother-tongue"
	DatasetDisabilityCause  = "disability-cause"
	DatasetIncomeSource     = "household-income-source"
	DatasetRemittance       = "remittance-expenses"
	DatasetLandOwnership    = "land-ownership"
	DatasetLiteracyStatus   = "literacy-status"
	DatasetEducationalLevel = "educational-level"
)

func init() {
	for i := range catalog {
		if catalog[i].Slug == "" {
			catalog[i].Slug = catalog[i].Key
		}
	}
}

var catalog = []Dataset{
	{
		Key:           DatasetAgeGroups,
		Domain:        DomainDemographics,
		Title:         "Population by Age Group and Gender",
		TitleNe:       "उमेर समूह र लिङ्ग अनुसार जनसंख्या",
		Description:   "Ward-wise population in five-year age bands, split by gender.",
		Unit:          UnitPopulation,
		CategoryLabel: "Age group",
		HasGender:     true,
		Categories: []Category{
			{Key: "age-0-4", Label: "0-4"},
			{Key: "age-5-9", Label: "5-9"},
			{Key: "age-10-14", Label: "10-14"},
			{Key: "age-15-19", Label: "15-19"},
			{Key: "age-20-24", Label: "20-24"},
			{Key: "age-25-29", Label: "25-29"},
			{Key: "age-30-34", Label: "30-34"},
			{Key: "age-35-39", Label: "35-39"},
			{Key: "age-40-44", Label: "40-44"},
			{Key: "age-45-49", Label: "45-49"},
			{Key: "age-50-54", Label: "50-54"},
			{Key: "age-55-59", Label: "55-59"},
			{Key: "age-60-64", Label: "60-64"},
			{Key: "age-65-69", Label: "65-69"},
			{Key: "age-70-74", Label: "70-74"},
			{Key: "age-75-and-above", Label: "75+", LabelNe: "७५+"},
		},
		Keywords: []string{"age structure", "population pyramid", "dependency ratio"},
	},
	{
		Key:           DatasetCaste,
		Domain:        DomainDemographics,
		Title:         "Population by Caste and Ethnicity",
		TitleNe:       "जातजाति अनुसार जनसंख्या",
		Description:   "Ward-wise population by caste and ethnic group.",
		Unit:          UnitPopulation,
		CategoryLabel: "Caste / ethnicity",
		Categories: []Category{
			{Key: "brahmin-hill", Label: "Brahmin (Hill)", LabelNe: "ब्राह्मण (पहाड)"},
			{Key: "chhetri", Label: "Chhetri", LabelNe: "क्षेत्री"},
			{Key: "magar", Label: "Magar", LabelNe: "मगर"},
			{Key: "tharu", Label: "Tharu", LabelNe: "थारु"},
			{Key: "tamang", Label: "Tamang", LabelNe: "तामाङ"},
			{Key: "newar", Label: "Newar", LabelNe: "नेवार"},
			{Key: "kami", Label: "Kami", LabelNe: "कामी"},
			{Key: "rai", Label: "Rai", LabelNe: "राई"},
			{Key: "gurung", Label: "Gurung", LabelNe: "गुरुङ"},
			{Key: "limbu", Label: "Limbu", LabelNe: "लिम्बु"},
			{Key: "damai", Label: "Damai", LabelNe: "दमाई"},
			{Key: "sarki", Label: "Sarki", LabelNe: "सार्की"},
			{Key: "sherpa", Label: "Sherpa", LabelNe: "शेर्पा"},
			{Key: "muslim", Label: "Muslim", LabelNe: "मुसलमान"},
			{Key: "other", Label: "Other", LabelNe: "अन्य"},
		},
		Keywords: []string{"caste", "ethnicity", "social composition"},
	},
	{
		Key:           DatasetReligion,
		Domain:        DomainDemographics,
		Title:         "Population by Religion",
		TitleNe:       "धर्म अनुसार जनसंख्या",
		Description:   "Ward-wise population by religion followed.",
		Unit:          UnitPopulation,
		CategoryLabel: "Religion",
		Categories: []Category{
			{Key: "hindu", Label: "Hindu", LabelNe: "हिन्दु"},
			{Key: "buddhist", Label: "Buddhist", LabelNe: "बौद्ध"},
			{Key: "kirati", Label: "Kirati", LabelNe: "किरात"},
			{Key: "christian", Label: "Christian", LabelNe: "क्रिश्चियन"},
			{Key: "islam", Label: "Islam", LabelNe: "इस्लाम"},
			{Key: "prakriti", Label: "Prakriti", LabelNe: "प्रकृति"},
			{Key: "bon", Label: "Bon", LabelNe: "बोन"},
			{Key: "jain", Label: "Jain", LabelNe: "जैन"},
			{Key: "other", Label: "Other", LabelNe: "अन्य"},
		},
		Keywords: []string{"religion", "faith"},
	},
	{
		Key:           DatasetMotherTongue,
		Domain:        DomainDemographics,
		Title:         "Population by Mother Tongue",
		TitleNe:       "मातृभाषा अनुसार जनसंख्या",
		Description:   "Ward-wise population by mother tongue.",
		Unit:          UnitPopulation,
		CategoryLabel: "Mother tongue",
		Categories: []Category{
			{Key: "nepali", Label: "Nepali", LabelNe: "नेपाली"},
			{Key: "maithili", Label: "Maithili", LabelNe: "मैथिली"},
			{Key: "bhojpuri", Label: "Bhojpuri", LabelNe: "भोजपुरी"},
			{Key: "tharu", Label: "Tharu", LabelNe: "थारु"},
			{Key: "tamang", Label: "Tamang", LabelNe: "तामाङ"},
			{Key: "newari", Label: "Newari", LabelNe: "नेवारी"},
			{Key: "magar", Label: "Magar", LabelNe: "मगर"},
			{Key: "rai", Label: "Rai", LabelNe: "राई"},
			{Key: "limbu", Label: "Limbu", LabelNe: "लिम्बु"},
			{Key: "gurung", Label: "Gurung", LabelNe: "गुरुङ"},
			{Key: "sherpa", Label: "Sherpa", LabelNe: "शेर्पा"},
			{Key: "other", Label: "Other", LabelNe: "अन्य"},
		},
		Keywords: []string{"language", "mother tongue"},
	},
	{
		Key:           DatasetDisabilityCause,
		Domain:        DomainDemographics,
		Title:         "Population with Disability by Cause",
		TitleNe:       "अपाङ्गताको कारण अनुसार जनसंख्या",
		Description:   "Ward-wise population living with a disability, by cause.",
		Unit:          UnitPopulation,
		CategoryLabel: "Cause",
		Categories: []Category{
			{Key: "congenital", Label: "Congenital", LabelNe: "जन्मजात"},
			{Key: "accident", Label: "Accident", LabelNe: "दुर्घटना"},
			{Key: "malnutrition", Label: "Malnutrition", LabelNe: "कुपोषण"},
			{Key: "disease", Label: "Disease", LabelNe: "रोग"},
			{Key: "conflict", Label: "Conflict", LabelNe: "द्वन्द्व"},
			{Key: "other", Label: "Other", LabelNe: "अन्य"},
		},
		Keywords: []string{"disability", "inclusion"},
	},
	{
		Key:           DatasetIncomeSource,
		Domain:        DomainEconomics,
		Title:         "Households by Main Income Source",
		TitleNe:       "मुख्य आयस्रोत अनुसार घरधुरी",
		Description:   "Ward-wise households by their main source of income.",
		Unit:          UnitHouseholds,
		CategoryLabel: "Income source",
		Categories: []Category{
			{Key: "agriculture", Label: "Agriculture", LabelNe: "कृषि"},
			{Key: "animal-husbandry", Label: "Animal husbandry", LabelNe: "पशुपालन"},
			{Key: "business", Label: "Business", LabelNe: "व्यापार"},
			{Key: "industry", Label: "Industry", LabelNe: "उद्योग"},
			{Key: "foreign-employment", Label: "Foreign employment", LabelNe: "वैदेशिक रोजगार"},
			{Key: "government-service", Label: "Government service", LabelNe: "सरकारी सेवा"},
			{Key: "non-government-service", Label: "Non-government service", LabelNe: "गैरसरकारी सेवा"},
			{Key: "labour", Label: "Daily wage labour", LabelNe: "ज्याला मजदुरी"},
			{Key: "pension", Label: "Pension", LabelNe: "निवृत्तिभरण"},
			{Key: "other", Label: "Other", LabelNe: "अन्य"},
		},
		Keywords: []string{"livelihood", "income", "employment"},
	},
	{
		Key:           DatasetRemittance,
		Domain:        DomainEconomics,
		Title:         "Households by Annual Remittance Received",
		TitleNe:       "वार्षिक विप्रेषण आम्दानी अनुसार घरधुरी",
		Description:   "Ward-wise households by the band of remittance received in the last year (NPR).",
		Unit:          UnitHouseholds,
		CategoryLabel: "Remittance band",
		Categories: []Category{
			{Key: "no-remittance", Label: "No remittance", LabelNe: "विप्रेषण नभएको"},
			{Key: "less-than-50k", Label: "Below 50,000", LabelNe: "५० हजार भन्दा कम"},
			{Key: "50k-100k", Label: "50,000 - 100,000", LabelNe: "५० हजार - १ लाख"},
			{Key: "100k-200k", Label: "100,000 - 200,000", LabelNe: "१ - २ लाख"},
			{Key: "200k-500k", Label: "200,000 - 500,000", LabelNe: "२ - ५ लाख"},
			{Key: "more-than-500k", Label: "Above 500,000", LabelNe: "५ लाख भन्दा बढी"},
		},
		Keywords: []string{"remittance", "foreign employment", "household income"},
	},
	{
		Key:           DatasetLandOwnership,
		Domain:        DomainEconomics,
		Title:         "Households by Land Ownership",
		TitleNe:       "जग्गाको स्वामित्व अनुसार घरधुरी",
		Description:   "Ward-wise households by the tenure of the land they use.",
		Unit:          UnitHouseholds,
		CategoryLabel: "Ownership",
		Categories: []Category{
			{Key: "private", Label: "Private", LabelNe: "निजी"},
			{Key: "guthi", Label: "Guthi", LabelNe: "गुठी"},
			{Key: "public-eilani", Label: "Public / Ailani", LabelNe: "सार्वजनिक / ऐलानी"},
			{Key: "village-block", Label: "Village block", LabelNe: "गाउँ ब्लक"},
			{Key: "other", Label: "Other", LabelNe: "अन्य"},
		},
		Keywords: []string{"land", "tenure", "housing"},
	},
	{
		Key:           DatasetLiteracyStatus,
		Domain:        DomainEducation,
		Title:         "Literacy Status by Gender",
		TitleNe:       "लिङ्ग अनुसार साक्षरता",
		Description:   "Ward-wise population aged five and above by ability to read and write.",
		Unit:          UnitPopulation,
		CategoryLabel: "Literacy",
		HasGender:     true,
		Categories: []Category{
			{Key: "both-reading-and-writing", Label: "Can read and write", LabelNe: "पढ्न र लेख्न सक्ने"},
			{Key: "reading-only", Label: "Can read only", LabelNe: "पढ्न मात्र सक्ने"},
			{Key: "illiterate", Label: "Cannot read or write", LabelNe: "निरक्षर"},
		},
		Keywords: []string{"literacy", "education"},
	},
	{
		Key:           DatasetEducationalLevel,
		Domain:        DomainEducation,
		Title:         "Population by Educational Attainment",
		TitleNe:       "शैक्षिक योग्यता अनुसार जनसंख्या",
		Description:   "Ward-wise population by highest level of education completed.",
		Unit:          UnitPopulation,
		CategoryLabel: "Level",
		HasGender:     true,
		Categories: []Category{
			{Key: "child-development-center", Label: "Early childhood", LabelNe: "बाल विकास"},
			{Key: "basic", Label: "Basic (grade 1-8)", LabelNe: "आधारभूत (१-८)"},
			{Key: "secondary", Label: "Secondary (grade 9-12)", LabelNe: "माध्यमिक (९-१२)"},
			{Key: "bachelor", Label: "Bachelor", LabelNe: "स्नातक"},
			{Key: "master", Label: "Master", LabelNe: "स्नातकोत्तर"},
			{Key: "phd", Label: "PhD", LabelNe: "विद्यावारिधि"},
			{Key: "non-formal", Label: "Non-formal", LabelNe: "अनौपचारिक"},
			{Key: "other", Label: "Other", LabelNe: "अन्य"},
		},
		Keywords: []string{"education", "attainment", "schooling"},
	},
}
