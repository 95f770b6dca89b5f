// Package generator drafts platform-appropriate post copy from a free-text
// idea. A configured provider is asked first; any provider failure degrades
// to a deterministic offline template, so Generate never fails.
package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/bhagyaborus/socialsphere/internal/boot"
	"github.com/bhagyaborus/socialsphere/internal/metrics"
	"github.com/cespare/xxhash"
	"github.com/labstack/gommon/log"
)

type Provider interface {
	Complete(ctx context.Context, system, input string) (string, error)
}

type service struct {
	provider Provider
	persona  *Persona
}

func New(config *boot.Config) *service {
	s := &service{persona: LoadPersona(config.OpenAI.PersonaFile)}
	if config.OpenAI.APIKey != "" {
		s.provider = NewOpenAIClient(config.OpenAI.APIKey, config.OpenAI.Model, config.OpenAI.BaseURL)
	}
	if config.IsDevelopment() {
		s.persona.Watch()
	}
	return s
}

// NewWithProvider wires an explicit provider, used by tests and by callers
// that manage their own client.
func NewWithProvider(provider Provider, persona *Persona) *service {
	if persona == nil {
		persona = LoadPersona("")
	}
	return &service{provider: provider, persona: persona}
}

func (s *service) Close() {
	s.persona.Close()
}

// Generate produces post copy for the input. It does not return an error:
// when no provider is configured, or the provider call fails, the offline
// fallback answers instead.
func (s *service) Generate(ctx context.Context, input string) string {
	if s.provider == nil {
		metrics.GeneratorFallbacks.Inc()
		return Fallback(input)
	}

	content, err := s.provider.Complete(ctx, s.persona.Prompt(), input)
	if err != nil {
		log.Errorf("generation provider: %+v", err)
		metrics.GeneratorFallbacks.Inc()
		return Fallback(input)
	}

	return content
}

var fallbackTemplates = []string{
	`🚀 Just had an amazing insight about %s!

Sometimes the best ideas come when we least expect them. Today reminded me that innovation isn't just about the big breakthroughs - it's about the small, consistent steps we take every day.

What's one small step you're taking today toward your goals?

#Innovation #Growth #LinkedIn #ProfessionalDevelopment`,

	`💡 Reflecting on %s today...

You know what I've learned? The most powerful connections aren't always the ones that look perfect on paper. They're the genuine, authentic relationships we build one conversation at a time.

Here's to building connections that matter!

#Networking #Authenticity #ProfessionalGrowth #Community`,

	`🌟 %s has me thinking about the power of perspective.

Every challenge is an opportunity in disguise. Every setback is a setup for a comeback. And every conversation has the potential to change someone's day.

What perspective shift has made the biggest difference in your career?

#Mindset #Career #Growth #Inspiration`,

	`✨ Today's thought on %s:

Success isn't just about reaching the destination - it's about who you become on the journey. The skills you develop, the relationships you build, and the impact you create along the way.

What's one lesson you've learned recently that changed how you approach your work?

#Success #Journey #Learning #ProfessionalDevelopment`,
}

// Fallback is a pure function: the template is selected by a stable hash of
// the input, so the same idea always yields the same draft.
func Fallback(input string) string {
	idx := xxhash.Sum64String(input) % uint64(len(fallbackTemplates))
	return fmt.Sprintf(fallbackTemplates[idx], strings.ToLower(input))
}
