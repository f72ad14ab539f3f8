package sentiment

import (
	"testing"

	prose "github.com/tsawler/prose/v3"

	"github.com/spacesedan/insightflow/internal/models"
)

func intPtr(v int) *int { return &v }

func mustDoc(t *testing.T, text string) *prose.Document {
	t.Helper()
	doc, err := prose.NewDocument(text)
	if err != nil {
		t.Fatalf("NewDocument(%q): %v", text, err)
	}
	return doc
}

func TestDetectIntent(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		rating *int
		want   string
	}{
		{
			name: "bug vocabulary wins",
			text: "The app keeps crashing with an error, this bug is not working at all.",
			want: models.IntentBugReport,
		},
		{
			name: "suggestion",
			text: "I wish you could improve the battery somehow.",
			want: models.IntentSuggestion,
		},
		{
			name: "feature request outranks plain suggestion",
			text: "You should add a new feature, the ability to export my data.",
			want: models.IntentFeatureRequest,
		},
		{
			name: "praise vocabulary",
			text: "Amazing camera, absolutely perfect in every way!",
			want: models.IntentPraise,
		},
		{
			name: "question mark",
			text: "Does this work with the older charger?",
			want: models.IntentQuestion,
		},
		{
			name:   "low rating tips complaint",
			text:   "There is a problem with the screen.",
			rating: intPtr(1),
			want:   models.IntentComplaint,
		},
		{
			name: "nothing fires",
			text: "I bought this last week.",
			want: models.IntentGeneralFeedback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectIntent(tt.text, mustDoc(t, tt.text), tt.rating)
			if got != tt.want {
				t.Errorf("DetectIntent(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestAssessCriticality(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		score  float64
		intent string
		rating *int
		want   string
	}{
		{
			name:   "calm praise is low",
			text:   "Lovely color.",
			score:  0.8,
			intent: models.IntentPraise,
			want:   models.CriticalityLow,
		},
		{
			name:   "mildly negative complaint is high",
			text:   "The case scratches easily.",
			score:  -0.5,
			intent: models.IntentComplaint,
			want:   models.CriticalityHigh,
		},
		{
			name:   "urgent one star bug report is critical",
			text:   "Completely broken, fix this asap!",
			score:  -0.9,
			intent: models.IntentBugReport,
			rating: intPtr(1),
			want:   models.CriticalityCritical,
		},
		{
			name:   "urgent term alone is medium",
			text:   "Please fix the manual, it has a typo.",
			score:  0.0,
			intent: models.IntentGeneralFeedback,
			want:   models.CriticalityMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssessCriticality(tt.text, tt.score, tt.intent, tt.rating)
			if got != tt.want {
				t.Errorf("AssessCriticality(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
