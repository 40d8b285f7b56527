package ports_test

import (
	"testing"

	"github.com/target/timeclock/internal/mocks"
	fakes "github.com/target/timeclock/internal/mocks/auth"
	"github.com/target/timeclock/internal/ports"
)

// This test only verifies that our mocks conform to the ports at compile time.
func TestMocksImplementPorts(t *testing.T) {
	t.Helper()

	var _ ports.CredentialStore = (*fakes.MemoryCredentialStore)(nil)
	var _ ports.FrameDetector = fakes.StaticFrameDetector{}
	var _ ports.Location = (*fakes.MemoryLocation)(nil)
	var _ ports.MessagePort = (*fakes.MemoryPort)(nil)
	var _ ports.SessionBridge = (*fakes.StubBridge)(nil)
	var _ ports.AuthAPI = (*mocks.MockAuthAPI)(nil)
	var _ ports.PunchAPI = (*mocks.MockPunchAPI)(nil)
}
