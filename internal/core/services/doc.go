// Package services implements the driving port interfaces.
// Services contain the core question-answering logic and orchestrate
// calls to driven ports (adapters): retrieval, generation, memory and
// index lifecycle.
//
// Services are pure Go with no CGO or external dependencies.
package services
