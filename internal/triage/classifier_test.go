package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relieflink/backend/internal/models"
)

func TestClassify(t *testing.T) {
	c := NewKeywordClassifier()

	tests := []struct {
		name  string
		draft Draft
		want  Result
	}{
		{
			name:  "declared sos always wins",
			draft: Draft{Priority: models.PrioritySOS},
			want:  Result{Priority: models.PrioritySOS, IsSOS: true},
		},
		{
			name:  "keyword in special needs flags sos",
			draft: Draft{SpecialNeeds: "Trapped under debris, two people"},
			want:  Result{Priority: models.PrioritySOS, IsSOS: true},
		},
		{
			name:  "keyword in address flags sos",
			draft: Draft{Address: "please send HELP to ward 4"},
			want:  Result{Priority: models.PrioritySOS, IsSOS: true},
		},
		{
			name:  "declared priority kept when text flags urgency",
			draft: Draft{Priority: models.PriorityHigh, SpecialNeeds: "injured leg"},
			want:  Result{Priority: models.PriorityHigh, IsSOS: true},
		},
		{
			name:  "no declaration, no keywords",
			draft: Draft{SpecialNeeds: "need blankets for the night"},
			want:  Result{Priority: models.PriorityLow, IsSOS: false},
		},
		{
			name:  "declared medium without keywords",
			draft: Draft{Priority: models.PriorityMedium, Address: "main street 12"},
			want:  Result{Priority: models.PriorityMedium, IsSOS: false},
		},
		{
			name:  "case insensitive match",
			draft: Draft{SpecialNeeds: "URGENT medicine required"},
			want:  Result{Priority: models.PrioritySOS, IsSOS: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.draft))
		})
	}
}
