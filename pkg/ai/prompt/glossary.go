package prompt

import (
	"regexp"
	"sort"
	"strings"
)

var knownTerms = []string{
	"OIS", "EIS", "AMOLED", "LCD", "OLED", "LTPO", "refresh rate",
	"mAh", "fast charging", "5G", "NFC", "IP68", "IP67", "Gorilla Glass",
	"telephoto", "ultra wide", "RAM", "ROM", "storage", "processor",
	"Snapdragon", "Exynos", "Dimensity", "Tensor", "Bionic",
	"HDR", "HDR10", "Dolby Vision", "stereo speakers", "LPDDR5",
}

var knownTermPatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(knownTerms))
	for i, t := range knownTerms {
		out[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(t) + `\b`)
	}
	return out
}()

var pairPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)difference\s+between\s+(\w+)\s+and\s+(\w+)`),
	regexp.MustCompile(`(?i)(\w+)\s+(?:vs\.?|versus)\s+(\w+)`),
	regexp.MustCompile(`(?i)(\w+)\s+or\s+(\w+)\s*\??$`),
}

var singlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)what\s+is\s+(?:an?\s+)?(\w+)`),
	regexp.MustCompile(`(?i)explain\s+(\w+)`),
	regexp.MustCompile(`(?i)what\s+does\s+(\w+)\s+mean`),
	regexp.MustCompile(`(?i)meaning\s+of\s+(\w+)`),
}

var fillerWords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "what": true, "me": true, "it": true, "this": true,
}

// Terms pulls at most two technical terms out of an explain question. A
// two-term result means the user asked for a contrast.
func Terms(message string) []string {
	for _, re := range pairPatterns {
		m := re.FindStringSubmatch(message)
		if m != nil && !fillerWords[strings.ToLower(m[1])] && !fillerWords[strings.ToLower(m[2])] {
			return []string{canonicalTerm(m[1]), canonicalTerm(m[2])}
		}
	}

	type hit struct {
		term string
		at   int
	}
	var hits []hit
	for i, re := range knownTermPatterns {
		if loc := re.FindStringIndex(message); loc != nil {
			hits = append(hits, hit{term: knownTerms[i], at: loc[0]})
		}
	}
	if len(hits) > 0 {
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].at < hits[j].at })
		out := make([]string, 0, 2)
		for _, h := range hits {
			out = append(out, h.term)
			if len(out) == 2 {
				break
			}
		}
		return out
	}

	for _, re := range singlePatterns {
		if m := re.FindStringSubmatch(message); m != nil && !fillerWords[strings.ToLower(m[1])] {
			return []string{canonicalTerm(m[1])}
		}
	}
	return nil
}

func canonicalTerm(word string) string {
	for _, t := range knownTerms {
		if strings.EqualFold(t, word) {
			return t
		}
	}
	return strings.ToUpper(word)
}

// TermLabel joins terms for display: "OIS vs EIS".
func TermLabel(terms []string) string {
	return strings.Join(terms, " vs ")
}

var glossary = map[string]string{
	"ois":           "**OIS (Optical Image Stabilization)** moves the lens or sensor physically to cancel out hand shake. Photos come out sharper and video steadier, and the gain is largest in low light.",
	"eis":           "**EIS (Electronic Image Stabilization)** steadies video in software by cropping the frame and shifting it against the shake. It costs no extra hardware but is weaker than OIS and trims a little resolution.",
	"amoled":        "**AMOLED** panels light each pixel on its own, so blacks are truly black, colours are vivid and contrast is high. Dark mode also saves battery on them.",
	"lcd":           "**LCD (Liquid Crystal Display)** screens sit in front of a backlight. They are cheaper to build but cannot show true black the way AMOLED can, which is why they show up mostly on budget phones.",
	"ltpo":          "**LTPO (Low-Temperature Polycrystalline Oxide)** displays can vary their refresh rate, from about 1Hz up to 120Hz, so the screen stays smooth while moving and sips power while still.",
	"mah":           "**mAh (milliamp-hour)** is battery capacity. More mAh means longer runtime; around 5000mAh usually lasts a full day of heavy use.",
	"5g":            "**5G** is the current generation of mobile networks, with much higher speeds and lower latency than 4G. It helps with streaming and gaming and keeps the phone future-proof.",
	"ip68":          "**IP68** is a dust and water resistance rating: fully dust-tight and able to survive roughly 1.5m of water for 30 minutes.",
	"ip67":          "**IP67** means dust-tight and able to survive about 1m of water for 30 minutes, a step below IP68.",
	"refresh rate":  "**Refresh rate**, measured in Hz, is how many times per second the screen redraws. 120Hz feels noticeably smoother for scrolling and games than the standard 60Hz.",
	"fast charging": "**Fast charging** pushes more wattage into the battery. A 65W charger can fill a phone in roughly 35 minutes, while 18W takes one and a half to two hours.",
	"nfc":           "**NFC (Near Field Communication)** is the short-range radio behind tap-to-pay services such as Google Pay and Apple Pay.",
}

const oisVsEIS = `**OIS vs EIS: the key differences**

**OIS (Optical Image Stabilization)**
- Moves the lens or sensor physically to cancel shake
- Better image quality, especially in low light
- Helps both photos and video
- Common on mid-range and flagship phones

**EIS (Electronic Image Stabilization)**
- Software crops and shifts the frame to remove shake
- Slightly reduces video resolution
- No extra hardware cost
- Found on most phones, budget ones included

**Verdict:** OIS gives better results. If the camera is your priority, look for OIS; many good phones combine OIS and EIS.`

// Glossary answers an explain question without the generator. ok is false
// when none of the terms has a stored explanation.
func Glossary(terms []string) (text string, ok bool) {
	if len(terms) == 0 {
		return "", false
	}
	if len(terms) == 2 {
		a, b := strings.ToLower(terms[0]), strings.ToLower(terms[1])
		if (a == "ois" && b == "eis") || (a == "eis" && b == "ois") {
			return oisVsEIS, true
		}
		ea, okA := glossary[a]
		eb, okB := glossary[b]
		if okA && okB {
			return ea + "\n\n" + eb, true
		}
	}
	for _, t := range terms {
		if e, found := glossary[strings.ToLower(t)]; found {
			return e, true
		}
	}
	return "", false
}
