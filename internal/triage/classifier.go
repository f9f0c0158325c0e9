// Package triage decides the urgency of an incoming request. The keyword heuristic
// is advisory; dispatchers remain the authority on priority.
package triage

import (
	"strings"

	"github.com/relieflink/backend/internal/models"
)

// Draft carries the fields of a not-yet-persisted request that matter for triage.
type Draft struct {
	Priority     models.Priority // as declared by the caller, may be empty
	SpecialNeeds string
	Address      string
}

// Result is the triage outcome applied to the request before it is persisted.
type Result struct {
	Priority models.Priority
	IsSOS    bool
}

// Classifier assigns a priority tier and SOS flag to a request draft. Behind an
// interface so the keyword heuristic can be swapped without touching intake.
type Classifier interface {
	Classify(d Draft) Result
}

// Keywords that flag a request as an emergency when they appear in its free text.
// Case-insensitive substring match; false positives and negatives are accepted.
var defaultKeywords = []string{
	"trapped",
	"injured",
	"bleeding",
	"unconscious",
	"help",
	"sos",
	"emergency",
	"immediately",
	"urgent",
	"dying",
}

// KeywordClassifier flags urgency by scanning free-text fields for trigger words.
type KeywordClassifier struct {
	keywords []string
}

// NewKeywordClassifier creates a classifier with the default keyword set.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{keywords: defaultKeywords}
}

// Classify implements Classifier. A declared sos priority always wins; otherwise
// any keyword hit in the concatenated free text sets the SOS flag. The final
// priority is the declared tier when present, sos when flagged, low otherwise.
func (k *KeywordClassifier) Classify(d Draft) Result {
	if d.Priority == models.PrioritySOS {
		return Result{Priority: models.PrioritySOS, IsSOS: true}
	}

	text := strings.ToLower(d.SpecialNeeds + " " + d.Address)
	flagged := false
	for _, kw := range k.keywords {
		if strings.Contains(text, kw) {
			flagged = true
			break
		}
	}

	priority := d.Priority
	if priority == "" {
		if flagged {
			priority = models.PrioritySOS
		} else {
			priority = models.PriorityLow
		}
	}
	return Result{Priority: priority, IsSOS: flagged || priority == models.PrioritySOS}
}
