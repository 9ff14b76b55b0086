package models

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"probe-go/internal/helper"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Session is one hostmon run recorded in the journal.
type Session struct {
	ID             string       `json:"id" gorm:"primaryKey"`
	Target         string       `json:"target" gorm:"index"`
	Address        string       `json:"address"`
	Probe          string       `json:"probe"`
	FuzzyThreshold int          `json:"fuzzy_threshold"`
	Probes         int          `json:"probes"`
	Successes      int          `json:"successes"`
	Failures       int          `json:"failures"`
	Flaps          int          `json:"flaps"`
	Uptime         int64        `json:"uptime_ms"`
	Downtime       int64        `json:"downtime_ms"`
	RTTMin         *float64     `json:"rtt_min_ms,omitempty"`
	RTTAvg         *float64     `json:"rtt_avg_ms,omitempty"`
	RTTMax         *float64     `json:"rtt_max_ms,omitempty"`
	FinalState     string       `json:"final_state"`
	CreatedAt      time.Time    `json:"started_at" gorm:"index"`
	EndedAt        *time.Time   `json:"ended_at"`
	Transitions    []Transition `json:"transitions,omitempty" gorm:"foreignKey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Transition is a recorded change of health state.
type Transition struct {
	ID        string    `json:"-" gorm:"primaryKey"`
	SessionID string    `json:"-" gorm:"index"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Previous  int64     `json:"previous_ms"`
	CreatedAt time.Time `json:"at"`
}

type Response struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = helper.GenerateRandomID()
	}

	return nil
}

func (t *Transition) BeforeCreate(tx *gorm.DB) (err error) {
	t.ID = helper.GenerateRandomID()

	return nil
}

func (s Session) IsExists() bool {
	return !s.CreatedAt.IsZero()
}

func (s Session) IsFinished() bool {
	return s.EndedAt != nil
}

// Print writes the response as a single JSON line to w.
func (r Response) Print(w io.Writer) {
	data, err := json.Marshal(r)

	if err != nil {
		log.Error().Err(err).Msg("error serializing response")
		return
	}

	fmt.Fprintln(w, string(data))
}
