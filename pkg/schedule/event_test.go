package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvent_Title(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{
			name: "workshop includes medium, trainer and location",
			event: Event{
				Type:     TypeWorkshop,
				Status:   StatusOffered,
				Source:   SourceEQS,
				Client:   "Acme",
				Course:   "Intro",
				Trainer:  "Dale",
				Medium:   MediumOnline,
				Location: "Syd",
			},
			want: "Offered-EQS-Acme Intro (Online) Dale Syd",
		},
		{
			name: "meeting includes trainer and location but no medium",
			event: Event{
				Type:     TypeMeeting,
				Status:   StatusConfirmed,
				Source:   SourceCCE,
				Client:   "Globex",
				Course:   "Kickoff",
				Trainer:  "Dom",
				Medium:   MediumF2F,
				Location: "Mel",
			},
			want: "Confirmed-CCE-Globex Kickoff Dom Mel",
		},
		{
			name: "course includes trainer only",
			event: Event{
				Type:     TypeCourse,
				Status:   StatusTentative,
				Source:   SourceCTD,
				Client:   "Initech",
				Course:   "Leadership",
				Trainer:  "Jack",
				Medium:   MediumOnline,
				Location: "Bne",
			},
			want: "Tentative-CTD-Initech Leadership Jack",
		},
		{
			name: "empty trailing fields are trimmed",
			event: Event{
				Type:   TypeCourse,
				Status: StatusOffered,
				Source: SourceEQS,
				Client: "Acme",
			},
			want: "Offered-EQS-Acme",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.Title())
		})
	}
}

func TestEvent_TitleIsDeterministic(t *testing.T) {
	event := Event{
		Type:     TypeWorkshop,
		Status:   StatusOffered,
		Source:   SourceEQS,
		Client:   "Acme",
		Course:   "Intro",
		Trainer:  "Dale",
		Medium:   MediumOnline,
		Location: "Syd",
	}
	first := event.Title()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, event.Title())
	}
}
