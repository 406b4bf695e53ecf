// Package conversation provides command parsing and user notification implementations.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/platechef/internal/domain"
	"github.com/hammamikhairi/platechef/internal/logger"
	"github.com/hammamikhairi/platechef/internal/upload"
)

// Compile-time interface check.
var _ domain.CommandParser = (*KeywordParser)(nil)

// KeywordParser matches user input to commands using keywords and simple patterns.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

// patternRule maps a pattern to a command. Named groups "key" and "arg",
// when present, become Command.Key and Command.Payload.
type patternRule struct {
	regex   *regexp.Regexp
	command domain.CommandType
}

// NewKeywordParser creates a keyword-based command parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(quit|exit|q|bye)$`), domain.CommandQuit},
		{regexp.MustCompile(`(?i)^(help|h|\?)$`), domain.CommandHelp},
		{regexp.MustCompile(`(?i)^(status|where|info|state)$`), domain.CommandStatus},
		{regexp.MustCompile(`(?i)^(health|ping|backend)$`), domain.CommandHealth},
		{regexp.MustCompile(`(?i)^(dismiss|ok|okay|got it|close)$`), domain.CommandDismiss},
		{regexp.MustCompile(`(?i)^(clear|reset|forget|unselect)$`), domain.CommandClear},
		{regexp.MustCompile(`(?i)^(analy[sz]e|identify|scan)$`), domain.CommandAnalyze},
		{regexp.MustCompile(`(?i)^(generate|cook|recipe|make it)(\s+(?P<arg>.+))?$`), domain.CommandGenerate},
		// A path after an analysis verb selects and analyzes in one go.
		{regexp.MustCompile(`(?i)^(upload|analy[sz]e|identify|scan|drop)\s+(?P<arg>.+)$`), domain.CommandUpload},
		{regexp.MustCompile(`(?i)^(select|open|pick|load|preview)\s+(?P<arg>.+)$`), domain.CommandSelect},
		{regexp.MustCompile(`(?i)^set\s+(?P<key>\w+)(\s*=\s*|\s+)(?P<arg>.*)$`), domain.CommandSet},
		{regexp.MustCompile(`(?i)^(?P<key>servings|serves|people|calories|kcal|diet|dietary)(\s*=\s*|\s+)(?P<arg>.*)$`), domain.CommandSet},
	}
	return p
}

// Parse converts user input into a command.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Command, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &domain.Command{Type: domain.CommandUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	for _, rule := range p.patterns {
		m := rule.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		cmd := &domain.Command{Type: rule.command}
		for i, name := range rule.regex.SubexpNames() {
			switch name {
			case "key":
				cmd.Key = strings.ToLower(m[i])
			case "arg":
				cmd.Payload = strings.TrimSpace(m[i])
			}
		}
		p.log.Debug("matched command: %s", cmd.Type)
		return cmd, nil
	}

	// Terminals paste a dropped file as its path.
	if upload.LooksLikeImagePath(trimmed) {
		p.log.Debug("input looks like a dropped photo")
		return &domain.Command{Type: domain.CommandUpload, Payload: trimmed}, nil
	}

	p.log.Debug("no match, returning unknown command")
	return &domain.Command{Type: domain.CommandUnknown, Payload: trimmed}, nil
}
