package pages

import (
	"context"
	"html/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/PalikaProfile/Profile-Backend/internal/config"
	"github.com/PalikaProfile/Profile-Backend/internal/profile"
	"github.com/PalikaProfile/Profile-Backend/internal/seo"
)

// View is everything the layout needs. Data holds the page-specific reduction
// and Chart the JSON handed to the client-side chart script.
type View struct {
	Site     config.SiteConfig
	SiteName string
	Locale   string
	Path     string
	Meta     seo.Meta
	JSONLD   template.HTML
	Crumbs   []seo.Crumb
	Nav      []NavLink
	Data     any
	Chart    any
}

type NavLink struct {
	Title string
	URL   string
}

func (s *Server) newView(ctx context.Context, locale, path, title, description string) *View {
	v := &View{
		Site:     s.site,
		SiteName: s.site.Name,
		Locale:   locale,
		Path:     path,
		Meta:     seo.NewMeta(s.site, path, title, description).ForLocale(locale),
	}
	if locale == "ne" && s.site.NameNe != "" {
		v.SiteName = s.site.NameNe
	}
	for _, d := range profile.Domains {
		v.Nav = append(v.Nav, NavLink{Title: profile.DomainTitle(d, locale), URL: v.Link(domainLanding(d))})
	}
	return v
}

func domainLanding(d profile.Domain) string {
	switch d {
	case profile.DomainDemographics:
		return "/profile/demographics/ward-summary"
	case profile.DomainEconomics:
		return "/profile/economics/remittance"
	case profile.DomainEducation:
		return "/profile/education/literacy"
	default:
		return "/profile/culture/historical-sites"
	}
}

// withLD attaches JSON-LD documents plus a breadcrumb trail ending at the page.
func (v *View) withLD(docs ...seo.Node) error {
	items := append([]seo.Crumb{{Name: t(v.Locale, "home"), URL: seo.LocalURL(v.Site, "/", v.Locale)}}, v.Crumbs...)
	docs = append(docs, seo.BreadcrumbList(items...))
	html, err := seo.Script(docs...)
	if err != nil {
		return err
	}
	v.JSONLD = html
	return nil
}

// crumb appends a breadcrumb for path.
func (v *View) crumb(name, path string) {
	v.Crumbs = append(v.Crumbs, seo.Crumb{Name: name, URL: seo.LocalURL(v.Site, path, v.Locale)})
}

// Link keeps the current locale on internal links.
func (v *View) Link(path string) string {
	if v.Locale == "" || v.Locale == v.Site.DefaultLocale {
		return path
	}
	return path + "?lang=" + v.Locale
}

func (v *View) T(key string) string {
	return t(v.Locale, key)
}

func (v *View) printer() *message.Printer {
	if v.Locale == "ne" {
		return message.NewPrinter(language.Nepali)
	}
	return message.NewPrinter(language.English)
}

// Num formats a count or measure with grouping separators and at most two decimals.
func (v *View) Num(x any) string {
	p := v.printer()
	switch n := x.(type) {
	case int:
		return p.Sprint(number.Decimal(n))
	case int64:
		return p.Sprint(number.Decimal(n))
	case float64:
		return p.Sprint(number.Decimal(n, number.MaxFractionDigits(2)))
	default:
		return p.Sprint(x)
	}
}

func (v *View) Pct(x float64) string {
	return v.Num(x) + "%"
}

func (v *View) WardLabel(n int) string {
	if v.Locale == "ne" {
		return t(v.Locale, "ward") + " " + v.Num(n)
	}
	return profile.WardLabel(n)
}

// NamedWard prefers the ward's own name in the page locale.
func (v *View) NamedWard(w profile.Ward) string {
	if v.Locale == "ne" {
		if w.NameNe != "" {
			return w.NameNe
		}
		return v.WardLabel(w.Number)
	}
	return w.Label()
}

// Alternate is one hreflang link in the page head.
type Alternate struct {
	Lang string
	URL  string
}

func (v *View) Alternates() []Alternate {
	out := make([]Alternate, 0, len(seo.Locales))
	for _, l := range seo.Locales {
		if u, ok := v.Meta.Alternates[l]; ok {
			out = append(out, Alternate{Lang: l, URL: u})
		}
	}
	return out
}

var ui = map[string][2]string{
	"home":                 {"Home", "गृहपृष्ठ"},
	"ward":                 {"Ward", "वडा"},
	"wards":                {"Wards", "वडाहरू"},
	"total":                {"Total", "जम्मा"},
	"male":                 {"Male", "पुरुष"},
	"female":               {"Female", "महिला"},
	"other":                {"Other", "अन्य"},
	"population":           {"Population", "जनसंख्या"},
	"households":           {"Households", "घरधुरी"},
	"percentage":           {"Percentage", "प्रतिशत"},
	"sex_ratio":            {"Sex ratio", "लैङ्गिक अनुपात"},
	"avg_household_size":   {"Average household size", "औसत परिवार संख्या"},
	"ward_summary":         {"Ward-wise population summary", "वडागत जनसंख्या विवरण"},
	"age_groups":           {"Population by age group", "उमेर समूह अनुसार जनसंख्या"},
	"remittance":           {"Remittance", "विप्रेषण"},
	"literacy":             {"Literacy", "साक्षरता"},
	"historical_sites":     {"Historical sites", "ऐतिहासिक स्थलहरू"},
	"datasets":             {"Datasets", "तथ्याङ्कहरू"},
	"dominant":             {"Most common", "सबैभन्दा धेरै"},
	"dependency_ratio":     {"Dependency ratio", "निर्भरता अनुपात"},
	"median_band":          {"Median age group", "मध्यक उमेर समूह"},
	"receiving":            {"Households receiving remittance", "विप्रेषण प्राप्त गर्ने घरधुरी"},
	"mean_amount":          {"Mean annual amount (NPR)", "औसत वार्षिक रकम (रु.)"},
	"estimated_total":      {"Estimated total (NPR)", "अनुमानित जम्मा (रु.)"},
	"literacy_rate":        {"Literacy rate", "साक्षरता दर"},
	"gender_gap":           {"Gender gap (points)", "लैङ्गिक अन्तर"},
	"higher_education":     {"Higher education", "उच्च शिक्षा"},
	"secondary_education":  {"Secondary education", "माध्यमिक शिक्षा"},
	"heritage_listed":      {"Heritage listed", "सम्पदा सूचीमा"},
	"type":                 {"Type", "किसिम"},
	"period":               {"Period", "काल"},
	"established":          {"Established", "स्थापना"},
	"not_found":            {"Page not found", "पृष्ठ भेटिएन"},
	"not_found_message":    {"The page you asked for does not exist.", "तपाईंले खोज्नुभएको पृष्ठ छैन।"},
	"server_error":         {"Something went wrong", "केही गडबड भयो"},
	"server_error_message": {"The page could not be built. Please try again later.", "पृष्ठ बनाउन सकिएन। पछि फेरि प्रयास गर्नुहोस्।"},
	"no_data":              {"No data has been published yet.", "अहिलेसम्म तथ्याङ्क प्रकाशित गरिएको छैन।"},
	"language":             {"नेपाली", "English"},
}

// t looks up a UI string; unknown keys render as themselves.
func t(locale, key string) string {
	l, ok := ui[key]
	if !ok {
		return key
	}
	if locale == "ne" {
		return l[1]
	}
	return l[0]
}
