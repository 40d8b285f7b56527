// Package mocks provides mock implementations for testing the timeclock client.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the backend ports.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	api := mocks.NewMockAuthAPI(ctrl)
//	api.EXPECT().Refresh(gomock.Any(), "abc123").Return(user, nil).Times(1)
package mocks

// Generate mock for AuthAPI interface from internal/ports package.
// This creates MockAuthAPI with methods for all AuthAPI interface methods:
// Refresh, ExchangeSSO
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=auth_api_mock.go github.com/target/timeclock/internal/ports AuthAPI

// Generate mock for PunchAPI interface from internal/ports package.
// This creates MockPunchAPI with methods for all PunchAPI interface methods:
// PunchStatus, PunchIn, PunchOut
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=punch_api_mock.go github.com/target/timeclock/internal/ports PunchAPI
