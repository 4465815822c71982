package dispatcher

const (
	WelcomeMessage = "👋 Hi! I'm a bot powered by Vertex AI (Gemini).\n\n" +
		"Try:\n" +
		"- search: Python → Google search\n" +
		"- solve: 2+2*5 → Math calculation\n" +
		"- joke → Get a random joke\n" +
		"- chat: Tell me something about AI → Gemini response"

	HelpMessage = "Available commands:\n- search:<query>\n- solve:<expression>\n- joke\n- chat:<message>"

	SearchingMessage      = "🔍 Searching..."
	ThinkingMessage       = "🤖 Thinking..."
	PromptRequiredMessage = "Please enter a message after 'chat:'."
	UnknownCommandMessage = "Unknown command. Type /help to see available options."
)
