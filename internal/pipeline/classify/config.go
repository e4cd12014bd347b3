package classify

// Config carries every vocabulary table and threshold the classifier uses.
// It is fixed at construction time; classification itself is a pure function
// of (query, session hint, request context) and this value.
type Config struct {
	// SystemExact is matched exactly against the normalized query.
	SystemExact []string
	// HealthKeywords are matched as substrings of the query.
	HealthKeywords []string
	// SessionFragments are matched as substrings of the session hint.
	SessionFragments []string
	// MonitoringAgents are matched as substrings of the user agent.
	MonitoringAgents []string
	// SystemWords backs the single-token heuristic: a lone lowercase
	// alphabetic token of at most SystemWordMaxLen characters found here
	// is treated as operational traffic.
	SystemWords      []string
	SystemWordMaxLen int

	Greetings      []string
	SimpleStarters []string
	// DomainTopics is the deployment-specific FAQ topic vocabulary,
	// loaded from configuration.
	DomainTopics []string
	// DomainTerms is the technical vocabulary of the deployment's domain.
	// A short query mentioning one of these is a real user question even
	// when it starts like an FAQ, so the starter rule skips it.
	DomainTerms []string
	// FAQMaxWords caps the word count for the simple-starter FAQ rule.
	FAQMaxWords int

	AnalyticalVerbs  []string
	ExplanatoryVerbs []string
	QuestionWords    []string
	// SimpleMaxWords is the word-count ceiling for simple queries; above
	// it a query is at least standard.
	SimpleMaxWords int
	// ComplexMinWords is the word-count floor above which a query is
	// complex regardless of verbs.
	ComplexMinWords int

	// Budget hints and chunk caps per outcome.
	FAQBudgetHint      int
	FAQMaxChunks       int
	SimpleBudgetHint   int
	SimpleMaxChunks    int
	StandardBudgetHint int
	StandardMaxChunks  int
	ComplexBudgetHint  int
	ComplexMaxChunks   int
}

// DefaultConfig returns the tuned production tables. Values are defaults,
// not invariants; deployments may override any of them.
func DefaultConfig() Config {
	return Config{
		SystemExact: []string{
			"ping", "pong", "ok", "up", "health", "healthz",
			"status", "ready", "alive", "test",
		},
		HealthKeywords: []string{
			"health check", "healthcheck", "monitoring probe",
			"uptime check", "heartbeat", "liveness", "readiness",
		},
		SessionFragments: []string{
			"monitor", "probe", "synthetic", "healthcheck",
			"uptime", "watchdog",
		},
		MonitoringAgents: []string{
			"pingdom", "uptimerobot", "statuscake", "site24x7",
			"kube-probe", "prometheus", "blackbox-exporter",
			"datadog", "newrelic",
		},
		SystemWords: []string{
			"ping", "pong", "ok", "up", "health", "status",
			"ready", "alive", "check", "test", "uptime",
		},
		SystemWordMaxLen: 6,

		Greetings: []string{
			"hello", "hi", "hey", "good morning", "good afternoon",
			"good evening", "greetings", "howdy",
		},
		SimpleStarters: []string{
			"what is", "what are", "how to", "how do i",
			"can i", "where is", "when is",
		},
		DomainTerms: []string{
			"nav", "fund", "portfolio", "holdings", "asset",
			"allocation", "redemption", "custodian", "benchmark",
			"expense ratio", "share class", "liquidity", "valuation",
		},
		FAQMaxWords: 8,

		AnalyticalVerbs: []string{
			"analyze", "analyse", "compare", "evaluate", "calculate",
		},
		ExplanatoryVerbs: []string{
			"explain", "describe", "tell me about",
		},
		QuestionWords: []string{
			"what", "who", "when", "where", "which", "how",
			"is", "are", "does", "do", "can",
		},
		SimpleMaxWords:  5,
		ComplexMinWords: 21,

		FAQBudgetHint:      200,
		FAQMaxChunks:       2,
		SimpleBudgetHint:   800,
		SimpleMaxChunks:    3,
		StandardBudgetHint: 1500,
		StandardMaxChunks:  5,
		ComplexBudgetHint:  2000,
		ComplexMaxChunks:   8,
	}
}
