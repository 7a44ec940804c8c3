// Package orchestrator answers a query by routing it to agents, running
// the selected agents concurrently and combining their results.
//
// Every call produces one trace:
//
//	code_assistant_query
//	├── route
//	├── agents_parallel
//	│   ├── agent.documentation
//	│   │   ├── agent.reasoning
//	│   │   └── tool.web_search
//	│   └── agent.code_lookup
//	│       └── ...
//	└── aggregate
//
// Example usage:
//
//	o, err := orchestrator.New(orchestrator.Config{Agents: agents, Tracer: tracer})
//	res, err := o.Answer(ctx, "How do I connect to Oracle database in Python?")
package orchestrator
