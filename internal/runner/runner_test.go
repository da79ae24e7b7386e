package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHelperProcess is not a real test: it is the child program spawned by
// the tests below.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for len(args) > 0 {
		if args[0] == "--" {
			args = args[1:]
			break
		}
		args = args[1:]
	}
	if len(args) == 0 {
		os.Exit(2)
	}

	switch args[0] {
	case "exit":
		code, _ := strconv.Atoi(args[1])
		os.Exit(code)
	case "cat":
		_, _ = io.Copy(os.Stdout, os.Stdin)
		os.Exit(0)
	case "echo":
		fmt.Print(strings.Join(args[1:], " "))
		os.Exit(0)
	case "env":
		fmt.Print(os.Getenv(args[1]))
		os.Exit(0)
	}
	os.Exit(2)
}

func helper(args ...string) Spec {
	return Spec{
		Name: os.Args[0],
		Args: append([]string{"-test.run=TestHelperProcess", "--"}, args...),
		Env:  []string{"GO_WANT_HELPER_PROCESS=1"},
	}
}

func newTestExec(stdout *bytes.Buffer) *Exec {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &Exec{
		Stdin:  strings.NewReader(""),
		Stdout: stdout,
		Stderr: io.Discard,
		Log:    log,
	}
}

func TestExec_Run_ExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		wantCode int
		wantOK   bool
	}{
		{name: "success", code: 0, wantCode: 0, wantOK: true},
		{name: "failure", code: 3, wantCode: 3, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			res := newTestExec(&out).Run(context.Background(), helper("exit", strconv.Itoa(tt.code)))

			assert.Equal(t, tt.wantCode, res.Code)
			assert.Equal(t, tt.wantOK, res.OK())
			if !tt.wantOK {
				var ee *ExitError
				require.ErrorAs(t, res.Err, &ee)
				assert.Equal(t, tt.code, ee.Code)
			}
		})
	}
}

func TestExec_Run_NotFound(t *testing.T) {
	var out bytes.Buffer
	res := newTestExec(&out).Run(context.Background(), Spec{Name: "speeed-definitely-not-installed"})

	assert.Equal(t, -1, res.Code)
	var le *LaunchError
	require.ErrorAs(t, res.Err, &le)
	assert.True(t, le.NotFound())
	assert.Equal(t, "speeed-definitely-not-installed", le.Name)
}

func TestExec_Run_ScriptedInput(t *testing.T) {
	var out bytes.Buffer
	spec := helper("cat")
	spec.Input = &Input{Delay: 10 * time.Millisecond, Data: []byte("\x1b[B\x1b[B\n")}

	res := newTestExec(&out).Run(context.Background(), spec)

	require.True(t, res.OK(), "unexpected result: %+v", res)
	assert.Equal(t, "\x1b[B\x1b[B\n", out.String())
}

func TestExec_Run_Env(t *testing.T) {
	var out bytes.Buffer
	spec := helper("env", "SPEEED_TEST_VALUE")
	spec.Env = append(spec.Env, "SPEEED_TEST_VALUE=hello")

	res := newTestExec(&out).Run(context.Background(), spec)

	require.True(t, res.OK())
	assert.Equal(t, "hello", out.String())
}

func TestExec_Output(t *testing.T) {
	var out bytes.Buffer
	captured, res := newTestExec(&out).Output(context.Background(), helper("echo", "typescript@5.4.0"))

	require.True(t, res.OK())
	assert.Equal(t, "typescript@5.4.0", captured)
	assert.Empty(t, out.String(), "captured output must not reach the terminal")
}

func TestPipeline_StopsAtFirstFailure(t *testing.T) {
	var ran []string
	step := func(name string, err error) Step {
		return Step{Name: name, Run: func(context.Context) error {
			ran = append(ran, name)
			return err
		}}
	}
	boom := errors.New("boom")

	err := Pipeline(context.Background(),
		step("init", nil),
		step("add", boom),
		step("commit", nil),
	)

	var se *StepError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "add", se.Step)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"init", "add"}, ran)
}

func TestPipeline_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := Pipeline(ctx, Step{Name: "init", Run: func(context.Context) error {
		called = true
		return nil
	}})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestCommandStep(t *testing.T) {
	var out bytes.Buffer
	e := newTestExec(&out)

	assert.NoError(t, Command(e, "ok", helper("exit", "0")).Run(context.Background()))

	err := Command(e, "bad", helper("exit", "1")).Run(context.Background())
	var ee *ExitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 1, ee.Code)
}
