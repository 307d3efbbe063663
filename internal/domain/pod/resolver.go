package pod

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// DefaultMatchThreshold puntaje mínimo (escala 0-100) para aceptar una coincidencia difusa.
const DefaultMatchThreshold = 80

// Match mejor candidato encontrado por el resolvedor.
type Match struct {
	Index int
	Name  string
	Score int
}

// Resolver mapea texto libre a nombres canónicos del catálogo con coincidencia aproximada.
// Ante puntajes iguales gana el primer candidato en el orden recibido.
type Resolver struct {
	threshold int
}

// NewResolver construye el resolvedor. Un umbral fuera de 0-100 usa DefaultMatchThreshold.
func NewResolver(threshold int) *Resolver {
	if threshold < 0 || threshold > 100 {
		threshold = DefaultMatchThreshold
	}
	return &Resolver{threshold: threshold}
}

// Threshold devuelve el umbral configurado.
func (r *Resolver) Threshold() int { return r.threshold }

// Resolve devuelve el nombre canónico que mejor coincide con freeText, o ok=false si ninguno alcanza el umbral.
func (r *Resolver) Resolve(freeText string, candidates []string) (string, bool) {
	m, ok := r.ResolveIndex(freeText, candidates)
	if !ok {
		return "", false
	}
	return m.Name, true
}

// ResolveIndex igual que Resolve pero devuelve también la posición y el puntaje del candidato.
func (r *Resolver) ResolveIndex(freeText string, candidates []string) (Match, bool) {
	best := Match{Index: -1}
	for i, c := range candidates {
		s := Score(freeText, c)
		if s > best.Score {
			best = Match{Index: i, Name: c, Score: s}
			if s == 100 {
				break
			}
		}
	}
	if best.Index < 0 || best.Score < r.threshold {
		return Match{Index: -1, Score: best.Score}, false
	}
	return best, true
}

// Score calcula la similitud ponderada (0-100) entre dos textos, sin distinguir mayúsculas.
// Combina el ratio de Levenshtein con variantes por tokens y parciales, penalizando las parciales
// cuando las longitudes difieren mucho.
func Score(a, b string) int {
	p1, p2 := normalize(a), normalize(b)
	if p1 == "" || p2 == "" {
		return 0
	}

	base := ratio(p1, p2)
	l1, l2 := float64(len([]rune(p1))), float64(len([]rune(p2)))
	lenRatio := math.Max(l1, l2) / math.Min(l1, l2)

	if lenRatio < 1.5 {
		tsor := float64(tokenSortRatio(p1, p2)) * 0.95
		tset := float64(tokenSetRatio(p1, p2)) * 0.95
		return roundScore(math.Max(float64(base), math.Max(tsor, tset)))
	}

	partialScale := 0.9
	if lenRatio > 8 {
		partialScale = 0.6
	}
	partial := float64(partialRatio(p1, p2)) * partialScale
	ptsor := float64(partialRatio(sortTokens(p1), sortTokens(p2))) * 0.95 * partialScale
	return roundScore(math.Max(float64(base), math.Max(partial, ptsor)))
}

// normalize minúsculas, todo lo que no sea letra o dígito pasa a espacio, espacios colapsados.
func normalize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

func ratio(a, b string) int {
	return ratioRunes([]rune(a), []rune(b))
}

func ratioRunes(a, b []rune) int {
	lensum := len(a) + len(b)
	if lensum == 0 || len(a) == 0 || len(b) == 0 {
		return 0
	}
	d := levenshtein.DistanceForStrings(a, b, levenshtein.DefaultOptions)
	r := float64(lensum-d) / float64(lensum)
	if r < 0 {
		r = 0
	}
	return roundScore(r * 100)
}

// partialRatio mejor ratio del texto corto contra cada ventana de igual longitud del texto largo.
func partialRatio(a, b string) int {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}
	if len(short) == len(long) {
		return ratioRunes(short, long)
	}
	best := 0
	for i := 0; i+len(short) <= len(long); i++ {
		if s := ratioRunes(short, long[i:i+len(short)]); s > best {
			best = s
			if best == 100 {
				break
			}
		}
	}
	return best
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSortRatio(a, b string) int {
	return ratio(sortTokens(a), sortTokens(b))
}

func tokenSetRatio(a, b string) int {
	setA, setB := tokenSet(a), tokenSet(b)
	var inter, onlyA, onlyB []string
	for t := range setA {
		if setB[t] {
			inter = append(inter, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range setB {
		if !setA[t] {
			onlyB = append(onlyB, t)
		}
	}
	sort.Strings(inter)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	sect := strings.Join(inter, " ")
	combA := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	combB := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))

	best := ratio(combA, combB)
	if sect != "" {
		if s := ratio(sect, combA); s > best {
			best = s
		}
		if s := ratio(sect, combB); s > best {
			best = s
		}
	}
	return best
}

func tokenSet(s string) map[string]bool {
	out := make(map[string]bool)
	for _, t := range strings.Fields(s) {
		out[t] = true
	}
	return out
}

func roundScore(v float64) int {
	return int(math.Round(v))
}
