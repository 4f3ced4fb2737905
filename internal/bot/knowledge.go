package bot

import (
	"fmt"
	"strings"

	"github.com/lojasmm/erpbot/internal/session"
)

const (
	greetingText = "👋 Hello! Welcome to our store.\n\n" +
		"I can help you with orders, our menu, delivery, payment and customer lookups.\n" +
		"Type *help* to see everything I can do."

	helpText = "📋 *Available commands*\n\n" +
		"• *hi* - greeting\n" +
		"• *menu* - see our products\n" +
		"• *order <qty> <product>* - place an order (e.g. order 2 pizza)\n" +
		"• *delivery* - delivery areas and times\n" +
		"• *payment* - accepted payment methods\n" +
		"• *<mobile number>* - look up a customer (e.g. 0501234567)\n" +
		"• *help* - show this menu\n" +
		"• *bye* - end the conversation"

	farewellText = "👋 Thank you for contacting us. Have a great day!"

	menuText = "🍽️ *Our Menu*\n\n" +
		"• Pizza\n• Burger\n• Shawarma\n• Biryani\n• Rice\n• Dates\n• Juice\n• Water\n\n" +
		"To order, send: *order <qty> <product>*"

	deliveryText = "🚚 *Delivery*\n\n" +
		"We deliver across Dubai, Sharjah, Ajman, Abu Dhabi and Al Ain.\n" +
		"Orders usually arrive within 45 minutes."

	paymentText = "💳 *Payment*\n\n" +
		"We accept cash on delivery, credit/debit cards and bank transfer."

	hoursText = "🕒 *Opening hours*\n\n" +
		"Every day from 9:00 to 23:00."

	contactText = "📞 *Contact us*\n\n" +
		"Reply here at any time or call our store during opening hours."

	thanksText = "😊 You're welcome! Anything else I can help with?"

	complaintText = "😔 We're sorry to hear that.\n\n" +
		"Please describe the problem (order, product, what went wrong) and our team will follow up."

	complaintAckText = "📝 Thank you, we've recorded your complaint and a team member will contact you soon."

	askProductText = "🛒 Please specify a product, e.g. *order 2 pizza*."

	orderCancelledText = "❌ Your order was cancelled."
)

// knowledgeEntry maps trigger keywords to a canned reply.
type knowledgeEntry struct {
	keywords []string
	reply    string
}

// knowledgeBase is scanned in order; the first entry with a keyword contained
// in the message wins.
var knowledgeBase = []knowledgeEntry{
	{[]string{"menu", "products", "catalog", "price"}, menuText},
	{[]string{"delivery", "deliver", "shipping"}, deliveryText},
	{[]string{"payment", "pay", "card", "cash"}, paymentText},
	{[]string{"hours", "open", "timing", "close"}, hoursText},
	{[]string{"contact", "call", "phone"}, contactText},
	{[]string{"thank", "thanks", "shukran"}, thanksText},
}

func lookupKnowledge(lower string) (string, bool) {
	for _, entry := range knowledgeBase {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.reply, true
			}
		}
	}
	return "", false
}

func askAddressText(o *session.Order) string {
	return fmt.Sprintf("🛒 Got it: *%d x %s*.\n\n📍 Please send your delivery address.", o.Quantity, o.Product)
}

func orderSummaryText(o *session.Order) string {
	return fmt.Sprintf("🧾 *Order summary*\n\n"+
		"*Product:* %s\n"+
		"*Quantity:* %d\n"+
		"*Address:* %s\n\n"+
		"Reply *yes* to confirm or *no* to cancel.", o.Product, o.Quantity, o.Address)
}

func orderPlacedText(o *session.Order) string {
	return fmt.Sprintf("✅ Your order of *%d x %s* has been placed and will be delivered to %s.", o.Quantity, o.Product, o.Address)
}
