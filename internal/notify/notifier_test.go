package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relieflink/backend/internal/models"
)

func TestStatusMessage(t *testing.T) {
	tests := []struct {
		name string
		req  *models.Request
		want string
	}{
		{
			name: "received",
			req:  &models.Request{ID: 1000001, Status: models.RequestTriaged},
			want: "Your relief request #1000001 has been received. You will be notified when an organization is assigned.",
		},
		{
			name: "received sos",
			req:  &models.Request{ID: 1000002, Status: models.RequestTriaged, IsSOS: true},
			want: "Your SOS request #1000002 has been received and marked as an emergency. A dispatcher will reach out as soon as possible.",
		},
		{
			name: "in progress",
			req:  &models.Request{ID: 1000003, Status: models.RequestInProgress},
			want: "Good news: a relief organization has been assigned to your request #1000003 and is on the way.",
		},
		{
			name: "closed",
			req:  &models.Request{ID: 1000004, Status: models.RequestClosed},
			want: "Your relief request #1000004 has been completed. Stay safe.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusMessage(tt.req))
		})
	}
}
