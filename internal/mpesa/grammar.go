package mpesa

import (
	"regexp"
	"time"
)

// moneySpan is the raw capture for a monetary figure. It deliberately admits
// trailing periods and the "12.0.00" artifact; CleanAmount sorts those out.
const moneySpan = `[\d,.]+`

// A shape is one recognized notification format: a recognition pattern over
// the message body plus a projection that fills the canonical record from
// the captured spans. Shapes are tried in declaration order and the first
// match wins; the specific Fuliza phrasings sit ahead of the generic
// money-movement ones so they are never shadowed.
type shape struct {
	name    string
	re      *regexp.Regexp
	project func(caps []string, tx *Transaction) error
}

// grammar is the full compiled pattern set. It is built once by newGrammar
// and shared read-only across concurrent Parse calls.
type grammar struct {
	header  *regexp.Regexp
	failure *regexp.Regexp
	shapes  []shape

	mpesaBalance   *regexp.Regexp
	mshwariBalance *regexp.Regexp
	timestamp      *regexp.Regexp
	cost           *regexp.Regexp
	dailyLimit     *regexp.Regexp
}

func newGrammar() *grammar {
	return &grammar{
		// Exactly 10 alphanumeric characters immediately before the
		// confirmation marker; only the marker is case-insensitive.
		header: regexp.MustCompile(`\b([A-Za-z0-9]{10})\s+(?i:confirmed)\.?`),

		// Independent failure classifier over the whole message: the closed
		// set of insufficiency and limit phrasings behind "Failed.".
		failure: regexp.MustCompile(`Failed\.\s+(?:` +
			`You\s+do\s+not\s+have\s+enough\s+money` +
			`|Insufficient\s+funds\s+in\s+your\s+M-PESA\s+account(?:\s+as\s+well\s+as\s+Fuliza\s+M-PESA)?` +
			`|You\s+have\s+insufficient\s+funds(?:\s+in\s+your\s+M-Shwari\s+account)?` +
			`|You\s+have\s+reached\s+your\s+Fuliza\s+M-PESA\s+limit` +
			`|Your\s+Fuliza\s+M-PESA\s+limit\s+is\s+not\s+available\s+at\s+this\s+time` +
			`)`),

		shapes: []shape{
			{
				name: "fuliza used",
				re: regexp.MustCompile(`^Fuliza\s+M-PESA\s+amount\s+is\s+Ksh\s*(` + moneySpan + `)\.?\s*` +
					`Interest\s+charged\s+Ksh\s*(` + moneySpan + `)\.?\s*` +
					`Total\s+Fuliza\s+M-PESA\s+outstanding\s+amount\s+is\s+Ksh\s*(` + moneySpan + `)\s+` +
					`due\s+on\s+(\d{2}/\d{2}/\d{2})`),
				project: func(caps []string, tx *Transaction) error {
					tx.Type = TypeFulizaUsed
					var err error
					if tx.Amount, err = cleanField("amount", caps[1]); err != nil {
						return err
					}
					interest, err := cleanField("fuliza_interest", caps[2])
					if err != nil {
						return err
					}
					tx.FulizaInterest = &interest
					total, err := cleanField("fuliza_total", caps[3])
					if err != nil {
						return err
					}
					tx.FulizaTotal = &total
					due, err := time.Parse(dueDateLayout, caps[4])
					if err != nil {
						return &MalformedTimestampError{Raw: caps[4], Err: err}
					}
					tx.FulizaDueDate = &due
					return nil
				},
			},
			{
				name: "fuliza repayment",
				re: regexp.MustCompile(`^Ksh\s*(` + moneySpan + `)\s+from\s+your\s+M-PESA\s+has\s+been\s+used\s+to\s+` +
					`(?:fully|partially)\s+pay\s+your\s+outstanding\s+Fuliza\s+M-PESA\.?` +
					`(?:\s*Available\s+Fuliza\s+M-PESA\s+limit\s+is\s+Ksh\s*(` + moneySpan + `))?`),
				project: func(caps []string, tx *Transaction) error {
					tx.Type = TypeFulizaRepayment
					var err error
					if tx.Amount, err = cleanField("amount", caps[1]); err != nil {
						return err
					}
					return cleanOptional("fuliza_limit", caps[2], &tx.FulizaLimit)
				},
			},
			{
				name: "received",
				re: regexp.MustCompile(`^You\s+have\s+received\s+Ksh(` + moneySpan + `)\s+from\s+` +
					`([^0-9]+?)(?:\s+(\d+))?(?:\s+on\b|[.,]|$)`),
				project: func(caps []string, tx *Transaction) error {
					tx.Type = TypeReceived
					var err error
					if tx.Amount, err = cleanField("amount", caps[1]); err != nil {
						return err
					}
					tx.SenderName = caps[2]
					tx.SenderPhone = caps[3]
					return nil
				},
			},
			{
				name: "paid",
				re:   regexp.MustCompile(`^Ksh(` + moneySpan + `)\s+paid\s+to\s+([^.]+?)(?:\.|\s+on\b|$)`),
				project: func(caps []string, tx *Transaction) error {
					tx.Type = TypePaid
					var err error
					if tx.Amount, err = cleanField("amount", caps[1]); err != nil {
						return err
					}
					tx.PaidTo = caps[2]
					return nil
				},
			},
			{
				name: "sent",
				re: regexp.MustCompile(`^Ksh(` + moneySpan + `)\s+sent\s+to\s+([^0-9]+?)` +
					`(?:\s+for\s+account\s+(\S+))?(?:\s+(\d+))?(?:\s+on\b|[.,]|$)`),
				project: func(caps []string, tx *Transaction) error {
					tx.Type = TypeSent
					var err error
					if tx.Amount, err = cleanField("amount", caps[1]); err != nil {
						return err
					}
					tx.Recipient = caps[2]
					tx.AccountNumber = caps[3]
					tx.RecipientPhone = caps[4]
					return nil
				},
			},
			{
				name: "mshwari transfer",
				re:   regexp.MustCompile(`^Ksh(` + moneySpan + `)\s+transferred\s+(from|to)\s+M-Shwari\s+account`),
				project: func(caps []string, tx *Transaction) error {
					if caps[2] == "from" {
						tx.Type = TypeMshwariWithdrawal
					} else {
						tx.Type = TypeMshwariDeposit
					}
					var err error
					tx.Amount, err = cleanField("amount", caps[1])
					return err
				},
			},
			{
				name: "airtime",
				re:   regexp.MustCompile(`^You\s+bought\s+Ksh(` + moneySpan + `)\s+of\s+airtime(?:\s+for\s+(\d+))?`),
				project: func(caps []string, tx *Transaction) error {
					tx.Type = TypeAirtime
					var err error
					if tx.Amount, err = cleanField("amount", caps[1]); err != nil {
						return err
					}
					tx.AirtimePhone = caps[2]
					return nil
				},
			},
			{
				name: "withdraw",
				re: regexp.MustCompile(`^(?:on\s+[^.]*?)?\s*Withdraw\s*Ksh(` + moneySpan + `)\s+from\s+` +
					`(.+?)(?:\s+New\s+M-PESA|\.|$)`),
				project: func(caps []string, tx *Transaction) error {
					tx.Type = TypeWithdraw
					var err error
					if tx.Amount, err = cleanField("amount", caps[1]); err != nil {
						return err
					}
					tx.AgentDetails = caps[2]
					return nil
				},
			},
			{
				name: "balance check",
				re:   regexp.MustCompile(`^Your\s+account\s+balance\s+was:\s*M-PESA\s+Account\s*:\s*Ksh(` + moneySpan + `)`),
				project: func(caps []string, tx *Transaction) error {
					tx.Type = TypeBalanceCheck
					var err error
					tx.Amount, err = cleanField("amount", caps[1])
					return err
				},
			},
		},

		// Trailing sections, searched independently over whatever follows
		// the matched shape. The M-PESA balance pattern requires one of the
		// New/M-PESA/business qualifiers so it cannot claim an M-Shwari
		// balance sentence.
		mpesaBalance:   regexp.MustCompile(`(?:New\s+(?:M-PESA\s+|business\s+)?|M-PESA\s+)balance(?:\s+is)?\s+Ksh\s*(` + moneySpan + `)`),
		mshwariBalance: regexp.MustCompile(`M-Shwari\s+(?:saving\s+account\s+)?balance(?:\s+is)?\s+Ksh\s*(` + moneySpan + `)`),
		timestamp:      regexp.MustCompile(`(?:on\s+)?(\d{1,2}/\d{1,2}/\d{2})(?:\s+at\s+(\d{1,2}:\d{2}\s*(?i:[AP]M)))?`),
		cost:           regexp.MustCompile(`Transaction\s+cost,?\s*Ksh\s*(` + moneySpan + `)`),
		dailyLimit:     regexp.MustCompile(`Amount\s+you\s+can\s+transact\s+within\s+the\s+day\s+is\s+(` + moneySpan + `)`),
	}
}
