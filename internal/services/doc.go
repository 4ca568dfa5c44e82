// Package services implements the business logic layer above the analysis
// engine. It loads bar histories from disk, validates incoming requests,
// memoizes analysis results and exposes the operations the command-line
// tools build on.
//
// Services follow these architectural principles:
//
//	1. Context propagation for cancellation and tracing
//	2. Dependency injection for loose coupling
//	3. Domain-focused methods that encapsulate business rules
package services
