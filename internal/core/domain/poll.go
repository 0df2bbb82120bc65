package domain

import (
	"strings"
	"time"
)

type Poll struct {
	ID        string    `json:"_id" bson:"_id"`
	Question  string    `json:"question" bson:"question"`
	Options   []string  `json:"options" bson:"options"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Clean trims the question and options and drops empty options.
// It reports false when nothing usable is left.
func (p *Poll) Clean() bool {
	p.Question = strings.TrimSpace(p.Question)
	if p.Question == "" {
		return false
	}

	options := make([]string, 0, len(p.Options))
	for _, opt := range p.Options {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		options = append(options, opt)
	}
	p.Options = options
	return true
}
