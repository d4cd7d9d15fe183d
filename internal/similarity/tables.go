package similarity

import "regexp"

// TablesVersion identifies the noise, stop-word and expansion tables. Bump
// it whenever they change so keyword scores are re-validated.
const TablesVersion = "2025.1"

const (
	// MinTermLength is the shortest token kept, in characters
	MinTermLength = 4
	// VerbatimBonus is added per promise term found as-is in the action text
	VerbatimBonus = 0.05
)

// ExpansionGroup maps a topic to the vocabulary used for it in legislation.
// A token starting with any trigger pulls in every expansion word.
type ExpansionGroup struct {
	Topic      string
	Triggers   []string
	Expansions []string
}

// Tables groups the lookups used by KeywordStrategy. Entries are folded
// (lower-case, no accents).
type Tables struct {
	Noise      []*regexp.Regexp
	StopWords  map[string]bool
	Expansions []ExpansionGroup
}

// DefaultTables returns the French and English tables
func DefaultTables() Tables {
	return Tables{
		Noise:      defaultNoise,
		StopWords:  toSet(defaultStopWords),
		Expansions: defaultExpansions,
	}
}

// Procedural and legal boilerplate found in action descriptions
var defaultNoise = []*regexp.Regexp{
	regexp.MustCompile(`\bamendements?\s+(?:n°|no\.|no\b|numero\b|num\.)\s*[a-z0-9-]+`),
	regexp.MustCompile(`\bsous-amendements?\s+(?:n°|no\.|no\b|numero\b)\s*[a-z0-9-]+`),
	regexp.MustCompile(`\barticles?\s+(?:(?:premier|liminaire)\b|(?:[lrd]\.?\s*)?\d+(?:[-.]\d+)*(?:\s+(?:bis|ter|quater))?)`),
	regexp.MustCompile(`\bart\.\s*(?:[lrd]\.?\s*)?\d+(?:[-.]\d+)*`),
	regexp.MustCompile(`\balineas?\s+\d+`),
	regexp.MustCompile(`\bscrutin\s+(?:public\s+)?(?:n°|no\.|no\b|numero\b)\s*\d+`),
	regexp.MustCompile(`\b(?:premiere|deuxieme|seconde|troisieme|nouvelle)\s+lecture\b`),
	regexp.MustCompile(`\blecture\s+definitive\b`),
	regexp.MustCompile(`\bn°\s*\d+`),
	regexp.MustCompile(`\bamendments?\s+(?:no\.|no\b|number\b|#)\s*[a-z0-9-]+`),
	regexp.MustCompile(`\bsections?\s+\d+[a-z]?\b`),
	regexp.MustCompile(`\b(?:first|second|third)\s+reading\b`),
}

var defaultStopWords = []string{
	// French
	"avec", "dans", "pour", "sans", "sous", "vers", "chez", "entre", "depuis", "contre",
	"cette", "ceux", "celle", "celles", "leur", "leurs", "notre", "nos", "votre",
	"tous", "toutes", "tout", "toute", "plus", "moins", "tres", "bien", "aussi", "ainsi",
	"mais", "donc", "comme", "afin", "lors", "dont", "elle", "elles", "nous", "vous",
	"etre", "avoir", "sont", "sera", "seront", "fait", "faire", "peut", "doit",
	"engage", "engageons", "promets", "promettons", "promet", "allons", "ferai", "ferons",
	"veux", "voulons", "devons", "faut",
	"vote", "voter", "votes", "amendement", "amendements", "article", "articles",
	"alinea", "scrutin", "lecture", "seance", "texte", "projet", "proposition", "relatif", "relative",
	// English
	"with", "from", "into", "that", "this", "these", "those", "their", "there", "will",
	"would", "shall", "should", "have", "been", "being", "were", "about", "against", "over",
	"promise", "commit", "pledge", "want", "must", "amendment", "section", "bill", "reading",
}

var defaultExpansions = []ExpansionGroup{
	{
		Topic:      "energy",
		Triggers:   []string{"energ", "electric", "carbur", "petrol", "chauffage", "nucleai", "renouvel", "fuel", "heating", "nuclear", "renewable"},
		Expansions: []string{"energie", "electricite", "carburant", "petrole", "chauffage", "nucleaire", "renouvelable", "facture", "energy", "electricity", "fuel", "heating", "nuclear", "renewable"},
	},
	{
		Topic:      "tax",
		Triggers:   []string{"impot", "impos", "taxe", "fiscal", "prelevement", "tax"},
		Expansions: []string{"impot", "impots", "taxe", "fiscalite", "fiscal", "prelevement", "contribution", "taxes"},
	},
	{
		Topic:      "pension",
		Triggers:   []string{"retraite", "pension", "retire"},
		Expansions: []string{"retraite", "retraites", "pension", "pensions", "cotisation", "retirement"},
	},
	{
		Topic:      "health",
		Triggers:   []string{"sante", "hopita", "medecin", "soins", "maladie", "health", "hospital", "doctor"},
		Expansions: []string{"sante", "hopital", "hopitaux", "medecin", "soins", "maladie", "assurance", "health", "hospital"},
	},
	{
		Topic:      "education",
		Triggers:   []string{"ecole", "educat", "enseign", "professeur", "eleve", "lycee", "school", "teacher"},
		Expansions: []string{"ecole", "education", "enseignement", "enseignant", "professeur", "eleves", "scolaire", "school", "teacher"},
	},
	{
		Topic:      "security",
		Triggers:   []string{"securit", "police", "polici", "gendarm", "delinquan", "terror", "crime"},
		Expansions: []string{"securite", "police", "policiers", "gendarmerie", "delinquance", "terrorisme", "ordre", "security", "crime"},
	},
	{
		Topic:      "immigration",
		Triggers:   []string{"immigr", "migrant", "etranger", "asile", "frontiere", "titre", "border", "asylum"},
		Expansions: []string{"immigration", "migrants", "etrangers", "asile", "frontieres", "sejour", "regularisation", "expulsion", "border", "asylum"},
	},
	{
		Topic:      "climate",
		Triggers:   []string{"climat", "carbone", "emission", "environnement", "ecolog", "pollution", "climate"},
		Expansions: []string{"climat", "climatique", "carbone", "emissions", "environnement", "ecologique", "pollution", "transition", "climate"},
	},
	{
		Topic:      "housing",
		Triggers:   []string{"logement", "loyer", "locat", "immobili", "housing", "rent"},
		Expansions: []string{"logement", "logements", "loyer", "loyers", "locataire", "hlm", "immobilier", "housing", "rent"},
	},
	{
		Topic:      "wages",
		Triggers:   []string{"salair", "smic", "remunerat", "pouvoir", "wage"},
		Expansions: []string{"salaire", "salaires", "smic", "remuneration", "revenu", "pouvoir", "achat", "wages"},
	},
	{
		Topic:      "jobs",
		Triggers:   []string{"emploi", "chomage", "travail", "chomeur", "jobs", "unemploy"},
		Expansions: []string{"emploi", "chomage", "travail", "embauche", "jobs", "employment", "unemployment"},
	},
	{
		Topic:      "religion",
		Triggers:   []string{"voile", "religi", "laic", "islam", "signe", "culte", "burqa", "burkini"},
		Expansions: []string{"religion", "religieux", "religieuse", "laicite", "voile", "signes", "ostentatoire", "culte", "islam"},
	},
	{
		Topic:      "ban",
		Triggers:   []string{"interdi", "prohib", "ban"},
		Expansions: []string{"interdiction", "interdire", "prohibition", "proscrire", "ban"},
	},
	{
		Topic:      "removal",
		Triggers:   []string{"supprim", "suppress", "abrog", "abolish", "repeal", "remov"},
		Expansions: []string{"suppression", "supprimer", "abrogation", "abroger", "retrait", "repeal"},
	},
	{
		Topic:      "justice",
		Triggers:   []string{"justice", "prison", "peine", "tribunal", "magistrat", "judge", "court"},
		Expansions: []string{"justice", "prison", "penitentiaire", "peine", "peines", "tribunal", "juge", "magistrat", "court"},
	},
	{
		Topic:      "defense",
		Triggers:   []string{"defense", "armee", "militaire", "otan", "military", "army"},
		Expansions: []string{"defense", "armee", "armees", "militaire", "programmation", "otan", "military"},
	},
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
