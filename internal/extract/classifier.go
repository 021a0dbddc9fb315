package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/voltpath/chargelog/internal/model"
)

// Keyword sets for the amount rules. Matching is plain substring
// containment on the trimmed line.
var (
	electricityKeywords = []string{"电费", "充电费", "电量费", "电费金额"}
	serviceKeywords     = []string{"服务费"}
	totalKeywords       = []string{"总金额", "实付", "合计", "应付"}
)

// energyPattern matches a number immediately followed by a kWh unit token,
// allowing intervening whitespace. 度 is the colloquial Chinese kWh unit.
var energyPattern = regexp.MustCompile(`(?i)([0-9]+(?:\.[0-9]+)?)\s*(kwh|度)`)

// Result is the classifier's output. Draft.StationName carries the
// canonical brand name; StationLine preserves the raw recognized line
// that triggered the brand rule, which downstream resolution uses as the
// creation candidate when the canonical name matches no known category.
type Result struct {
	Draft       model.ExtractionDraft
	StationLine string
}

// Classifier scans recognized text lines and fills an ExtractionDraft.
//
// Classification is layout-agnostic: OCR line order is not guaranteed to
// match the receipt's visual layout, so every rule is keyword-driven and
// line-independent. Each field is sticky — the first matching line in
// document order wins and later matches are ignored.
type Classifier struct{}

// NewClassifier creates a classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify consumes the ordered recognized lines and returns the draft.
// A pure function: identical input always yields an identical result, and
// a malformed line simply contributes no field.
func (c *Classifier) Classify(lines []string) Result {
	var res Result
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		c.classifyLine(line, &res)
	}
	return res
}

// classifyLine applies the rule sets in fixed priority order. A rule only
// fires while its target field is unset.
func (c *Classifier) classifyLine(line string, res *Result) {
	draft := &res.Draft
	if draft.EnergyKWh == nil {
		if m := energyPattern.FindStringSubmatch(Normalize(line)); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				draft.EnergyKWh = model.Float64Ptr(model.Round1(v))
			}
		}
	}
	if draft.ElectricityFee == nil && containsAny(line, electricityKeywords) {
		if v, ok := MaxValue(line); ok {
			draft.ElectricityFee = model.Float64Ptr(model.Round2(v))
		}
	}
	if draft.ServiceFee == nil && containsAny(line, serviceKeywords) {
		if v, ok := MaxValue(line); ok {
			draft.ServiceFee = model.Float64Ptr(model.Round2(v))
		}
	}
	if draft.Total == nil && containsAny(line, totalKeywords) {
		if v, ok := MaxValue(line); ok {
			draft.Total = model.Float64Ptr(model.Round2(v))
		}
	}
	if draft.StationName == nil {
		if b, ok := MatchBrand(line); ok {
			draft.StationName = model.StringPtr(b.CanonicalName)
			res.StationLine = line
		}
	}
}

func containsAny(line string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(line, kw) {
			return true
		}
	}
	return false
}
