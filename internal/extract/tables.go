package extract

import "github.com/ppiankov/politikcred/internal/model"

// TablesVersion identifies the classification tables below. Bump it when
// phrases or keywords change so stored candidates can be re-extracted.
const TablesVersion = "2025.1"

// Confidence assigned by each rule tier of DetectPromise
const (
	AntiPatternConfidence = 0.2
	StrongConfidence      = 0.9
	MediumConfidence      = 0.6
	NoMatchConfidence     = 0.3

	// MinPromiseConfidence is the exclusive floor for keeping a sentence
	MinPromiseConfidence = 0.5
	// MinSentenceLength is measured in characters
	MinSentenceLength = 20
	// MaxKeywords returned by ExtractKeywords
	MaxKeywords = 10
	// MinKeywordLength is measured in characters
	MinKeywordLength = 4
)

// Tables groups the phrase and keyword lookups used by the classifier
type Tables struct {
	AntiPatterns     []string
	StrongPhrases    []string
	MediumPhrases    []string
	VotePhrases      []string
	ChangeVerbWords  []string // Matched as whole folded words
	ChangeVerbPrefix []string // Matched as folded word prefixes
	CategoryKeywords map[model.Category][]string
	StopWords        []string
}

// DefaultTables returns the French and English tables
func DefaultTables() Tables {
	return Tables{
		// Hedging language. Checked first; a hit overrides any commitment phrase.
		AntiPatterns: []string{
			"si", "s'il", "s'ils", "peut-être", "éventuellement", "envisager", "envisage", "envisageons",
			"j'aimerais", "je voudrais", "nous aimerions", "il faudrait peut-être",
			"pourrait", "pourrions", "réfléchir à",
			"if", "maybe", "perhaps", "consider", "considering", "i would like", "we would like", "might",
		},
		StrongPhrases: []string{
			"je m'engage", "nous nous engageons", "s'engage à", "s'engage a",
			"je promets", "nous promettons", "promet de",
			"je vais", "nous allons", "je ferai", "nous ferons", "je garantis",
			"i commit to", "we commit to", "i promise", "we promise", "i will", "we will", "i pledge", "we pledge",
		},
		MediumPhrases: []string{
			"nous devons", "il faut", "je veux", "nous voulons", "je souhaite",
			"mon projet", "ma proposition", "notre proposition", "notre programme", "je propose", "nous proposons",
			"we must", "i want", "we want", "my proposal", "our proposal", "we need to",
		},
		VotePhrases: []string{
			"voter pour", "voter contre", "voterai pour", "voterai contre", "voterons pour", "voterons contre",
			"vote pour", "vote contre", "vote for", "vote against", "voting for", "voting against",
		},
		ChangeVerbWords: []string{
			"cut", "cuts", "ban", "bans", "raise", "raising", "build", "lower", "end",
			"cree", "creer", "creera", "creerai", "creerons",
		},
		ChangeVerbPrefix: []string{
			"creation", "supprim", "suppress", "augment", "baiss", "redui", "reduc",
			"diminu", "interdi", "abrog", "instaur", "construi", "relev", "plafonn", "gele",
			"create", "creating", "remov", "abolish", "increas", "decreas", "reduce", "reducing",
		},
		CategoryKeywords: map[model.Category][]string{
			model.CategoryEconomic: {
				"impot", "taxe", "fiscal", "budget", "econom", "emploi", "chomage", "salaire",
				"entreprise", "croissance", "dette", "deficit", "tva", "pouvoir d'achat", "inflation",
				"tax", "jobs", "wage", "growth", "debt",
			},
			model.CategorySocial: {
				"retraite", "logement", "pauvrete", "famille", "solidarit", "allocation", "handicap",
				"egalite", "social", "smic", "laicite", "religi", "voile",
				"pension", "housing", "welfare",
			},
			model.CategoryEnvironmental: {
				"climat", "environnement", "ecolog", "energie", "carbone", "pollution",
				"renouvelable", "nucleaire", "biodiversit", "transition",
				"climate", "energy", "emission", "renewable",
			},
			model.CategorySecurity: {
				"securit", "police", "policier", "gendarm", "terroris", "delinquan", "defense",
				"armee", "militaire", "violence",
				"security", "army", "terror",
			},
			model.CategoryHealthcare: {
				"sante", "hopita", "medecin", "soin", "maladie", "vaccin", "pharmac", "infirmi",
				"health", "hospital", "doctor", "medical",
			},
			model.CategoryEducation: {
				"education", "ecole", "enseign", "universit", "etudiant", "eleve", "professeur",
				"scolaire", "formation",
				"school", "teacher", "student",
			},
			model.CategoryJustice: {
				"justice", "tribunal", "juge", "prison", "penal", "magistrat", "peine", "judiciaire",
				"court", "judge", "sentencing",
			},
			model.CategoryImmigration: {
				"immigr", "migrant", "frontiere", "asile", "etranger", "sejour", "naturalis", "expuls",
				"border", "asylum", "deport",
			},
			model.CategoryForeignPolicy: {
				"europe", "international", "diplomat", "ukraine", "otan", "guerre", "traite", "onu",
				"foreign", "nato", "treaty",
			},
		},
		StopWords: []string{
			"dans", "pour", "avec", "sans", "sont", "nous", "vous", "leur", "leurs", "cette",
			"ceux", "celle", "elle", "elles", "mais", "plus", "moins", "tout", "tous", "toute",
			"toutes", "être", "avoir", "fait", "faire", "comme", "aussi", "très", "encore",
			"même", "donc", "alors", "depuis", "entre", "avant", "après", "chez", "selon",
			"notre", "votre", "quand", "ainsi", "sera", "serait", "engage",
			"this", "that", "with", "from", "have", "will", "would", "their", "there", "which",
			"about", "into", "than", "they", "were", "been", "what", "when", "your", "also",
		},
	}
}
