// Package mpesa extracts structured transaction records from free-text
// M-PESA notification messages. The package is pure computation: no I/O,
// no logging, no state shared between calls.
package mpesa

import (
	"strings"
	"unicode/utf8"
)

// Parser holds the compiled grammar. It is immutable after construction and
// safe for concurrent use by any number of goroutines.
type Parser struct {
	g *grammar
}

// NewParser compiles the grammar once and returns a ready parser.
func NewParser() *Parser {
	return &Parser{g: newGrammar()}
}

var defaultParser = NewParser()

// ParseMessage parses msg with the package's shared parser.
func ParseMessage(msg string) (*Transaction, error) {
	return defaultParser.Parse(msg)
}

// Parse extracts a single transaction record from one notification message.
// It returns ErrInvalidInput for non-text input, ErrUnrecognizedFormat when
// no transaction id or no shape matches, a MalformedAmountError when a
// captured numeric span cannot be normalized, and a MalformedTimestampError
// when a captured date or date+time span is invalid. Partial extraction is
// never returned as success.
func (p *Parser) Parse(message string) (*Transaction, error) {
	if len(message) > maxMessageLen || !utf8.ValidString(message) || strings.TrimSpace(message) == "" {
		return nil, ErrInvalidInput
	}

	tx := &Transaction{Status: StatusSuccess}
	if p.g.failure.MatchString(message) {
		tx.Status = StatusFailed
	}

	// A transaction id and some recognizable body are required even when
	// the failure classifier fired.
	loc := p.g.header.FindStringSubmatchIndex(message)
	if loc == nil {
		return nil, ErrUnrecognizedFormat
	}
	tx.TransactionID = strings.ToUpper(message[loc[2]:loc[3]])
	body := strings.TrimSpace(message[loc[1]:])

	tail, ok, err := p.matchShape(body, tx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnrecognizedFormat
	}

	if err := p.extractTrailing(tail, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// matchShape tries the grammar shapes in priority order against the body.
// On a match it projects the captures into tx and returns the text after
// the shape's last captured span, from which the trailing sections are
// extracted. Scanning from the last capture rather than the match end keeps
// spans the shape consumed semantically (a Fuliza due date, a withdraw
// header date) out of the trailing extraction while preserving terminator
// text the pattern had to consume.
func (p *Parser) matchShape(body string, tx *Transaction) (tail string, ok bool, err error) {
	for _, s := range p.g.shapes {
		idx := s.re.FindStringSubmatchIndex(body)
		if idx == nil {
			continue
		}
		caps := make([]string, len(idx)/2)
		tailFrom := idx[1]
		for i := 2; i < len(idx); i += 2 {
			if idx[i] < 0 {
				continue
			}
			caps[i/2] = collapseSpaces(body[idx[i]:idx[i+1]])
			if i == 2 || idx[i+1] > tailFrom {
				tailFrom = idx[i+1]
			}
		}
		if err := s.project(caps, tx); err != nil {
			return "", false, err
		}
		return body[tailFrom:], true, nil
	}
	return "", false, nil
}

// extractTrailing pulls the optional trailing sections out of the text that
// follows the matched shape. Absent sections are simply omitted.
func (p *Parser) extractTrailing(tail string, tx *Transaction) error {
	if m := p.g.mpesaBalance.FindStringSubmatch(tail); m != nil {
		if err := cleanOptional("mpesa_balance", m[1], &tx.MpesaBalance); err != nil {
			return err
		}
	}
	if m := p.g.mshwariBalance.FindStringSubmatch(tail); m != nil {
		if err := cleanOptional("mshwari_balance", m[1], &tx.MshwariBalance); err != nil {
			return err
		}
	}
	if m := p.g.cost.FindStringSubmatch(tail); m != nil {
		if err := cleanOptional("transaction_cost", m[1], &tx.TransactionCost); err != nil {
			return err
		}
	}
	if m := p.g.dailyLimit.FindStringSubmatch(tail); m != nil {
		if err := cleanOptional("daily_limit", m[1], &tx.DailyLimit); err != nil {
			return err
		}
	}
	if m := p.g.timestamp.FindStringSubmatch(tail); m != nil {
		t, hasTime, err := parseOccurredAt(m[1], collapseSpaces(m[2]))
		if err != nil {
			return err
		}
		tx.OccurredAt = &t
		tx.HasTime = hasTime
	}
	return nil
}
