package dataset

import (
	"sort"

	"github.com/autograde-ml/autograde/internal/graph"
	"github.com/autograde-ml/autograde/internal/tensor"
)

// Word lists for the language-identification question, one list per
// language. Words are lowercase; the combined alphabet is derived from
// whatever characters appear here.
var languageWords = map[string][]string{
	"English": {
		"house", "water", "bread", "night", "light", "world", "heart", "sound",
		"green", "stone", "river", "cloud", "dream", "plant", "earth", "horse",
		"apple", "chair", "table", "mouth", "happy", "small", "great", "young",
		"black", "white", "sweet", "quick", "think", "speak", "write", "learn",
		"money", "paper", "music", "story", "friend", "garden", "window", "winter",
	},
	"Spanish": {
		"casa", "agua", "noche", "mundo", "tiempo", "ciudad", "camino", "puerta",
		"verde", "piedra", "nube", "tierra", "caballo", "manzana", "silla", "mesa",
		"boca", "feliz", "negro", "blanco", "dulce", "pensar", "hablar", "escribir",
		"dinero", "papel", "musica", "amigo", "ventana", "invierno", "corazon",
		"pequeno", "grande", "joven", "rapido", "aprender", "jardin", "historia",
		"fuego", "playa",
	},
	"Finnish": {
		"talo", "vesi", "leipa", "ilta", "valo", "maailma", "sydan", "aani",
		"vihrea", "kivi", "joki", "pilvi", "uni", "kasvi", "maa", "hevonen",
		"omena", "tuoli", "poyta", "suu", "iloinen", "pieni", "suuri", "nuori",
		"musta", "valkoinen", "makea", "nopea", "ajatella", "puhua", "kirjoittaa",
		"oppia", "raha", "paperi", "musiikki", "tarina", "ystava", "puutarha",
		"ikkuna", "talvi",
	},
	"Dutch": {
		"huis", "water", "brood", "nacht", "licht", "wereld", "hart", "geluid",
		"groen", "steen", "rivier", "wolk", "droom", "plant", "aarde", "paard",
		"appel", "stoel", "tafel", "mond", "blij", "klein", "groot", "jong",
		"zwart", "zoet", "snel", "denken", "spreken", "schrijven", "leren",
		"geld", "papier", "muziek", "verhaal", "vriend", "tuin", "venster",
		"winter", "vuur",
	},
	"Polish": {
		"woda", "chleb", "noc", "swiatlo", "swiat", "serce", "dzwiek", "zielony",
		"kamien", "rzeka", "chmura", "sen", "roslina", "ziemia", "kon", "jablko",
		"krzeslo", "stol", "usta", "wesoly", "maly", "wielki", "mlody", "czarny",
		"bialy", "slodki", "szybki", "myslec", "mowic", "pisac", "uczyc",
		"pieniadze", "papier", "muzyka", "opowiesc", "przyjaciel", "ogrod",
		"okno", "zima", "ogien",
	},
}

type labeledWord struct {
	word string
	lang int
}

// LanguageIDDataset provides single words labeled by language for question
// q4. Words are encoded one character per timestep as one-hot rows over the
// combined alphabet; batches only ever mix words of the same length.
type LanguageIDDataset struct {
	languages []string
	alphabet  []rune
	charIndex map[rune]int
	train     []labeledWord
	val       []labeledWord
}

// NewLanguageID builds the dataset from the embedded word lists, holding
// out every fifth word of each language for validation.
func NewLanguageID() *LanguageIDDataset {
	d := &LanguageIDDataset{charIndex: make(map[rune]int)}

	for lang := range languageWords {
		d.languages = append(d.languages, lang)
	}
	sort.Strings(d.languages)

	seen := make(map[rune]bool)
	for li, lang := range d.languages {
		for wi, word := range languageWords[lang] {
			for _, r := range word {
				if !seen[r] {
					seen[r] = true
					d.alphabet = append(d.alphabet, r)
				}
			}
			lw := labeledWord{word: word, lang: li}
			if wi%5 == 4 {
				d.val = append(d.val, lw)
			} else {
				d.train = append(d.train, lw)
			}
		}
	}

	sort.Slice(d.alphabet, func(i, j int) bool { return d.alphabet[i] < d.alphabet[j] })
	for i, r := range d.alphabet {
		d.charIndex[r] = i
	}
	return d
}

// Languages returns the label names in index order.
func (d *LanguageIDDataset) Languages() []string { return d.languages }

// NumChars returns the size of the combined alphabet.
func (d *LanguageIDDataset) NumChars() int { return len(d.alphabet) }

// IterateOnce returns one epoch of training mini-batches. Words are
// grouped by length first, so every batch has a uniform sequence length.
func (d *LanguageIDDataset) IterateOnce(batchSize int) []SequenceBatch {
	return d.batchWords(d.train, batchSize)
}

// ValidationAccuracy runs the model on the held-out words and returns the
// fraction classified correctly.
func (d *LanguageIDDataset) ValidationAccuracy(run func(xs []graph.Node) graph.Node) float64 {
	correct, total := 0, 0
	for _, batch := range d.batchWords(d.val, 8) {
		xs := make([]graph.Node, len(batch.Xs))
		for i, x := range batch.Xs {
			xs[i] = x
		}
		logits := run(xs)
		predicted := logits.Data().ArgmaxRows()
		wanted := batch.Y.Data().ArgmaxRows()
		for i, p := range predicted {
			if p == wanted[i] {
				correct++
			}
			total++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

func (d *LanguageIDDataset) batchWords(words []labeledWord, batchSize int) []SequenceBatch {
	byLength := make(map[int][]labeledWord)
	var lengths []int
	for _, lw := range words {
		n := len([]rune(lw.word))
		if _, ok := byLength[n]; !ok {
			lengths = append(lengths, n)
		}
		byLength[n] = append(byLength[n], lw)
	}
	sort.Ints(lengths)

	var batches []SequenceBatch
	for _, n := range lengths {
		group := byLength[n]
		for i := 0; i < len(group); i += batchSize {
			end := i + batchSize
			if end > len(group) {
				end = len(group)
			}
			batches = append(batches, d.encodeBatch(group[i:end], n))
		}
	}
	return batches
}

// encodeBatch one-hot encodes a same-length group of words: one Constant
// of shape (batch, numChars) per character position, plus one-hot labels.
func (d *LanguageIDDataset) encodeBatch(words []labeledWord, length int) SequenceBatch {
	xs := make([]*graph.Constant, length)
	for t := 0; t < length; t++ {
		x := tensor.New(tensor.Shape{len(words), d.NumChars()})
		for i, lw := range words {
			runes := []rune(lw.word)
			x.Set(i, d.charIndex[runes[t]], 1)
		}
		xs[t] = graph.NewConstant(x)
	}

	y := tensor.New(tensor.Shape{len(words), len(d.languages)})
	for i, lw := range words {
		y.Set(i, lw.lang, 1)
	}
	return SequenceBatch{Xs: xs, Y: graph.NewConstant(y)}
}
