package discord

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/NgigiN/pesatrack/internal/config"
	"github.com/NgigiN/pesatrack/internal/mpesa"
	"github.com/NgigiN/pesatrack/internal/storage"
	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

type Bot struct {
	session    *discordgo.Session
	db         *storage.Database
	parser     *mpesa.Parser
	log        *logrus.Logger
	channelID  string
	healthAddr string
	startTime  time.Time
}

func NewBot(cfg *config.Config, log *logrus.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	db, err := storage.NewDatabase(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize the database: %w", err)
	}

	bot := &Bot{
		session:    session,
		db:         db,
		parser:     mpesa.NewParser(),
		log:        log,
		channelID:  cfg.DiscordChannelId,
		healthAddr: cfg.HealthAddr,
		startTime:  time.Now(),
	}

	session.AddHandler(bot.handleMessage)
	session.Identify.Intents = discordgo.IntentGuildMessages

	return bot, nil
}

func (b *Bot) Start() error {
	// Start health check server
	go b.startHealthServer()

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	return nil
}

func (b *Bot) Stop() {
	b.session.Close()
}

func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID {
		return //bot's messages
	}

	if m.ChannelID != b.channelID {
		return //specific to the channel
	}

	// Check for summary command
	if strings.HasPrefix(m.Content, "!summary") {
		b.handleSummaryCommand(s, m)
		return
	}

	// Check for batch processing (multiple transactions)
	if isBatchMessage(m.Content) {
		b.handleBatchMessage(s, m)
		return
	}

	parts := strings.Split(m.Content, "\n")
	if len(parts) < 1 {
		s.ChannelMessageSend(m.ChannelID, "No message content provided")
		return
	}
	parsed, err := b.parser.Parse(parts[0])
	if err != nil {
		b.log.WithError(err).Debug("rejected message")
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Invalid Mpesa Message: %v", err))
		return
	}

	category, reason := parseMetadata(parts[1:])
	if !isValidCategory(category) {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Invalid category: %s. \n Use: food, travel, savings, church, investments", category))
		return
	}

	tx := storage.NewTransaction(parsed, category, reason)
	if err := b.db.SaveTransaction(tx); err != nil {
		b.log.WithError(err).WithField("transaction_id", parsed.TransactionID).Error("failed to save transaction")
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Failed to save transaction: %v", err))
		return
	}

	b.log.WithFields(logrus.Fields{
		"transaction_id": parsed.TransactionID,
		"type":           parsed.Type,
		"status":         parsed.Status,
	}).Info("tracked transaction")
	s.ChannelMessageSend(m.ChannelID, formatTracked(parsed, category))
}

func formatTracked(parsed *mpesa.Transaction, category string) string {
	msg := fmt.Sprintf("Tracked %s: %s Ksh%s", parsed.TransactionID, parsed.Type, parsed.Amount.StringFixed(2))
	if cp := parsed.Counterparty(); cp != "" {
		msg += " - " + cp
	}
	msg += " in " + category
	if parsed.Status == mpesa.StatusFailed {
		msg += " (FAILED)"
	}
	return msg
}

func parseMetadata(lines []string) (category, reason string) {
	category = "uncategorized"
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Category: ") {
			category = strings.TrimSpace(strings.TrimPrefix(line, "Category: "))
		} else if strings.HasPrefix(line, "c: ") {
			category = strings.TrimSpace(strings.TrimPrefix(line, "c: "))
		} else if strings.HasPrefix(line, "Reason: ") {
			reason = strings.TrimSpace(strings.TrimPrefix(line, "Reason: "))
		} else if strings.HasPrefix(line, "r: ") {
			reason = strings.TrimSpace(strings.TrimPrefix(line, "r: "))
		}
	}
	return category, reason
}

func isValidCategory(category string) bool {
	validCategories := map[string]bool{
		"food":        true,
		"travel":      true,
		"savings":     true,
		"church":      true,
		"investments": true,
	}
	return validCategories[strings.ToLower(category)]
}

func (b *Bot) handleSummaryCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	args := strings.Fields(m.Content)

	if len(args) == 1 {
		// !summary - show all categories
		b.handleAllCategoriesSummary(s, m)
	} else if len(args) == 2 {
		arg := strings.ToLower(args[1])
		if arg == "types" {
			// !summary types - totals per transaction type
			b.handleTypeSummary(s, m)
			return
		}
		if !isValidCategory(arg) {
			s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Invalid category: %s. Use: food, travel, savings, church, investments", arg))
			return
		}
		b.handleCategorySummary(s, m, arg)
	} else {
		s.ChannelMessageSend(m.ChannelID, "Usage: !summary [category|types]\nExamples:\n!summary - show all categories\n!summary food - show food transactions\n!summary types - totals per transaction type")
	}
}

func (b *Bot) handleAllCategoriesSummary(s *discordgo.Session, m *discordgo.MessageCreate) {
	summary, err := b.db.GetCategorySummary()
	if err != nil {
		b.log.WithError(err).Error("failed to get category summary")
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Failed to get summary: %v", err))
		return
	}

	if len(summary) == 0 {
		s.ChannelMessageSend(m.ChannelID, "No transactions found.")
		return
	}

	var total float64
	response := "**Transaction Summary**\n\n"

	categories := []string{"food", "travel", "savings", "church", "investments"}
	for _, category := range categories {
		if amount, exists := summary[category]; exists {
			response += fmt.Sprintf("**%s**: Ksh%.2f\n", strings.Title(category), amount)
			total += amount
		}
	}

	response += fmt.Sprintf("\n**Total**: Ksh%.2f", total)
	s.ChannelMessageSend(m.ChannelID, response)
}

func (b *Bot) handleTypeSummary(s *discordgo.Session, m *discordgo.MessageCreate) {
	summary, err := b.db.GetTypeSummary()
	if err != nil {
		b.log.WithError(err).Error("failed to get type summary")
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Failed to get summary: %v", err))
		return
	}

	if len(summary) == 0 {
		s.ChannelMessageSend(m.ChannelID, "No transactions found.")
		return
	}

	response := "**Totals by Transaction Type**\n\n"
	for _, t := range []mpesa.TransactionType{
		mpesa.TypeReceived, mpesa.TypePaid, mpesa.TypeSent,
		mpesa.TypeWithdraw, mpesa.TypeAirtime,
		mpesa.TypeMshwariDeposit, mpesa.TypeMshwariWithdrawal,
		mpesa.TypeFulizaUsed, mpesa.TypeFulizaRepayment,
		mpesa.TypeBalanceCheck,
	} {
		if amount, exists := summary[string(t)]; exists {
			response += fmt.Sprintf("**%s**: Ksh%.2f\n", t, amount)
		}
	}
	s.ChannelMessageSend(m.ChannelID, response)
}

func (b *Bot) handleCategorySummary(s *discordgo.Session, m *discordgo.MessageCreate, category string) {
	transactions, err := b.db.GetTransactionsByCategory(category)
	if err != nil {
		b.log.WithError(err).Error("failed to get transactions")
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Failed to get transactions: %v", err))
		return
	}

	if len(transactions) == 0 {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("No transactions found for category: %s", category))
		return
	}

	var total float64
	response := fmt.Sprintf("**%s Transactions**\n\n", strings.Title(category))

	// Show last 10 transactions
	limit := 10
	if len(transactions) < limit {
		limit = len(transactions)
	}

	for i := 0; i < limit; i++ {
		tx := transactions[i]
		total += tx.Amount
		response += fmt.Sprintf("- **Ksh%.2f** %s to %s\n  %s - %s\n\n",
			tx.Amount, tx.Type, tx.Counterparty,
			tx.DateTime.Format("Jan 2, 2006 3:04 PM"),
			tx.Reason)
	}

	if len(transactions) > limit {
		response += fmt.Sprintf("... and %d more transactions\n\n", len(transactions)-limit)
	}

	response += fmt.Sprintf("**Total %s**: Ksh%.2f (%d transactions)", strings.Title(category), total, len(transactions))
	s.ChannelMessageSend(m.ChannelID, response)
}

// isBatchMessage reports whether the content carries more than one
// confirmation message.
func isBatchMessage(content string) bool {
	count := 0
	for _, line := range strings.Split(content, "\n") {
		if isConfirmationLine(line) {
			count++
		}
	}
	return count > 1
}

func isConfirmationLine(line string) bool {
	return strings.Contains(strings.ToLower(line), "confirmed")
}

func (b *Bot) handleBatchMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	lines := strings.Split(m.Content, "\n")

	// Split into individual transactions
	transactions := splitIntoTransactions(lines)

	if len(transactions) == 0 {
		s.ChannelMessageSend(m.ChannelID, "No valid M-PESA transactions found in batch message")
		return
	}

	successCount := 0
	errorCount := 0
	var errors []string

	for i, txData := range transactions {
		parsed, err := b.parser.Parse(txData.Message)
		if err != nil {
			errorCount++
			errors = append(errors, fmt.Sprintf("Transaction %d: %v", i+1, err))
			continue
		}

		category, reason := parseMetadata(txData.Metadata)
		if !isValidCategory(category) {
			errorCount++
			errors = append(errors, fmt.Sprintf("Transaction %d: Invalid category '%s'", i+1, category))
			continue
		}

		tx := storage.NewTransaction(parsed, category, reason)
		if err := b.db.SaveTransaction(tx); err != nil {
			errorCount++
			errors = append(errors, fmt.Sprintf("Transaction %d: %v", i+1, err))
			continue
		}

		successCount++
	}

	b.log.WithFields(logrus.Fields{
		"processed": successCount,
		"failed":    errorCount,
	}).Info("batch processed")

	response := "**Batch Processing Complete**\n"
	response += fmt.Sprintf("**Successfully processed**: %d transactions\n", successCount)

	if errorCount > 0 {
		response += fmt.Sprintf("**Failed**: %d transactions\n", errorCount)
		response += "**Errors:**\n"
		for _, err := range errors {
			response += fmt.Sprintf("- %s\n", err)
		}
	}

	s.ChannelMessageSend(m.ChannelID, response)
}

type TransactionData struct {
	Message  string
	Metadata []string
}

// splitIntoTransactions groups batch lines into one confirmation message
// plus its trailing c:/r: metadata lines.
func splitIntoTransactions(lines []string) []TransactionData {
	var transactions []TransactionData
	var currentTx TransactionData
	var inTransaction bool

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if isConfirmationLine(line) {
			// Save previous transaction if exists
			if inTransaction {
				transactions = append(transactions, currentTx)
			}

			currentTx = TransactionData{
				Message:  line,
				Metadata: []string{},
			}
			inTransaction = true
		} else if inTransaction {
			if strings.HasPrefix(line, "c:") || strings.HasPrefix(line, "Category:") ||
				strings.HasPrefix(line, "r:") || strings.HasPrefix(line, "Reason:") {
				currentTx.Metadata = append(currentTx.Metadata, line)
			}
		}
	}

	// Add the last transaction
	if inTransaction {
		transactions = append(transactions, currentTx)
	}

	return transactions
}

func (b *Bot) startHealthServer() {
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		uptime := time.Since(b.startTime)
		status := "healthy"

		// Check if Discord connection is alive
		if b.session == nil || b.session.State == nil {
			status = "unhealthy"
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		response := fmt.Sprintf(`{
			"status": "%s",
			"uptime": "%s",
			"discord_connected": %t,
			"timestamp": "%s"
		}`, status, uptime.String(), b.session != nil && b.session.State != nil, time.Now().Format(time.RFC3339))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(response))
	})

	if err := http.ListenAndServe(b.healthAddr, nil); err != nil {
		b.log.WithError(err).Error("health server stopped")
	}
}
