package envfile

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/loykin/envsync/internal/common"
)

// altValueMarker introduces a directive comment. Everything after the first
// occurrence is captured verbatim as the alternate value.
const altValueMarker = "alt_value="

type lineClass int

const (
	lineBlank lineClass = iota
	lineComment
	lineDirective
	lineKeyValue
	lineMalformed
)

type parserState int

const (
	// stateIdle: the next key-value line uses its own literal value.
	stateIdle parserState = iota
	// stateAltArmed: a directive comment has armed an alternate value for
	// the next key-value line. Blank lines and plain comments do not
	// disarm it; only a key-value line consumes it, and a second directive
	// overwrites it.
	stateAltArmed
)

// Parser reads an env file line by line and accumulates the pending update
// mapping. When AltMode is set, comment lines carrying "alt_value=" arm an
// alternate value for the next key-value line.
type Parser struct {
	AltMode bool
	// OnAccept is called once per accepted key, in file order.
	OnAccept func(key string)
	// OnMalformed is called once per line that is neither blank, comment
	// nor key=value.
	OnMalformed func(line string)

	state    parserState
	altValue string
}

// ParseFile opens path and parses it. A missing or unreadable file is
// returned as the underlying *os.PathError.
func (p *Parser) ParseFile(path string) (Vars, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return p.Parse(f)
}

// Parse consumes r to EOF. Later entries overwrite earlier ones for the same
// key. An alternate value still armed at EOF is silently discarded.
func (p *Parser) Parse(r io.Reader) (Vars, error) {
	logger := common.GetLogger().WithComponent("envfile")
	vars := Vars{}

	p.state = stateIdle
	p.altValue = ""

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch p.classify(line) {
		case lineBlank, lineComment:
			// no state change; an armed alternate value persists
		case lineDirective:
			if p.state == stateAltArmed {
				// source behavior: the second directive wins silently
				logger.Debug("directive overwrites armed alternate value", "previous", p.altValue)
			}
			p.altValue = line[strings.Index(line, altValueMarker)+len(altValueMarker):]
			p.state = stateAltArmed
		case lineKeyValue:
			p.consume(line, vars)
		case lineMalformed:
			if p.OnMalformed != nil {
				p.OnMalformed(line)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return vars, nil
}

// classify assumes line is already trimmed.
func (p *Parser) classify(line string) lineClass {
	switch {
	case line == "":
		return lineBlank
	case strings.HasPrefix(line, "#"):
		if p.AltMode && strings.Contains(line, altValueMarker) {
			return lineDirective
		}
		return lineComment
	case strings.Contains(line, "="):
		return lineKeyValue
	default:
		return lineMalformed
	}
}

// consume records one key-value line, applying and resetting an armed
// alternate value.
func (p *Parser) consume(line string, vars Vars) {
	key, literal, _ := strings.Cut(line, "=")

	var value *string
	if p.state == stateAltArmed {
		alt := p.altValue
		p.state = stateIdle
		p.altValue = ""
		switch alt {
		case "":
			// deliberate "do nothing" directive: the entry is dropped
			return
		case "-":
			// deletion marker: key is set to null
			value = nil
		default:
			value = &alt
		}
	} else {
		value = &literal
	}

	// an empty value is fine but obviously not an empty key
	if key == "" {
		return
	}
	vars[key] = value
	if p.OnAccept != nil {
		p.OnAccept(key)
	}
}
