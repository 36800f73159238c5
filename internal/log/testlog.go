package log

import "testing"

type testLogOutput struct {
	t *testing.T
}

// NewTestLogOutput returns an Output that writes all messages via t.Log and
// t.Fatal.
func NewTestLogOutput(t *testing.T) Output {
	return &testLogOutput{t: t}
}

func (l *testLogOutput) Printf(format string, v ...any) {
	l.t.Helper()
	l.t.Logf(format, v...)
}

func (l *testLogOutput) Println(v ...any) {
	l.t.Helper()
	l.t.Log(v...)
}

func (l *testLogOutput) Fatalf(format string, v ...any) {
	l.t.Helper()
	l.t.Fatalf(format, v...)
}

func (l *testLogOutput) Fatalln(v ...any) {
	l.t.Helper()
	l.t.Fatal(v...)
}

// RedirectToTestingLog redirects all log output while a testcase is executed
// to t.Log.
// When the testcase finished, the logger output and the debug log level is
// restored to the previous values.
func RedirectToTestingLog(t *testing.T) {
	oldLogOut := StdLogger.GetOutput()
	oldDebugEnabled := StdLogger.DebugEnabled()

	StdLogger.SetOutput(NewTestLogOutput(t))
	StdLogger.EnableDebug(true)

	t.Cleanup(func() {
		StdLogger.SetOutput(oldLogOut)
		StdLogger.EnableDebug(oldDebugEnabled)
	})
}
