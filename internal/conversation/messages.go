package conversation

// User-facing texts. The bot speaks one language; translated answers live
// in the knowledge base, not here.
const (
	msgGreeting = "Hi! I'm the Bigo Live streaming assistant. I can take your streamer application and answer your questions.\n\n" +
		"Pick an action below or just type your question."
	msgHelp           = "Type your question in plain words and I'll do my best to answer. Commands: /apply, /faq, /contact"
	msgChooseCategory = "Choose a category:"
	msgContact        = "To arrange a casting call, or if anything is still unclear, message the manager directly.\n" +
		"WhatsApp: +7 918 325 30 80."
	msgFallback = "I couldn't find an exact answer. Pick what you need:"

	msgAskName       = "Let's get your application in! What's your name? (first and last)"
	msgAskAge        = "How old are you?"
	msgAgeDigitsOnly = "Please enter your age in digits."
	msgAgeRejected   = "Unfortunately, only users 18 and over can join the program. Thanks for your interest in the platform!"
	msgAskContact    = "Leave a contact: @username or a phone number."
	msgAskExperience = "Any streaming experience? Describe it briefly (or say \"none\")."
	msgCompleted     = "Thanks! Your application went to a manager. We'll be in touch shortly."
	msgCancelled     = "Application cancelled."
	msgNothingActive = "There's no application in progress. Pick an action below:"

	backLabel = "← Back"
)
