package testsupport

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/amonks/tareas/internal/config"
	"github.com/amonks/tareas/internal/fakeapi"
	"github.com/amonks/tareas/task"
)

var (
	buildOnce  sync.Once
	tareasPath string
	buildErr   error
)

type backendKey struct{}

// BuildTareas builds the tareas binary once and returns its path.
func BuildTareas(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		moduleRoot, err := findModuleRoot()
		if err != nil {
			buildErr = err
			return
		}

		binDir, err := os.MkdirTemp("", "tareas-bin-")
		if err != nil {
			buildErr = err
			return
		}

		tareasPath = filepath.Join(binDir, "tareas")
		cmd := exec.Command("go", "build", "-o", tareasPath, "./cmd/tareas")
		cmd.Dir = moduleRoot
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("build tareas: %w: %s", err, strings.TrimSpace(string(output)))
		}
	})

	if buildErr != nil {
		t.Fatalf("%v", buildErr)
	}

	return tareasPath
}

// SetupScriptEnv configures the environment for a testscript: the tareas
// binary, a fresh home directory and a fake backend that lives as long as
// the script.
func SetupScriptEnv(t testing.TB, env *testscript.Env) error {
	t.Helper()

	env.Setenv("TAREAS", BuildTareas(t))

	homeDir := filepath.Join(env.WorkDir, "home")
	if err := EnsureHomeDirs(homeDir); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)
	env.Setenv("EDITOR", "false")

	backend := fakeapi.New()
	server := httptest.NewServer(backend.Handler())
	env.Defer(server.Close)
	env.Values[backendKey{}] = backend
	env.Setenv(config.EnvAPIURL, server.URL)
	return nil
}

// Commands returns the custom testscript commands.
func Commands() map[string]func(ts *testscript.TestScript, neg bool, args []string) {
	return map[string]func(ts *testscript.TestScript, neg bool, args []string){
		"envset":   CmdEnvSet,
		"taskid":   CmdTaskID,
		"seed":     CmdSeed,
		"failnext": CmdFailNext,
	}
}

// CmdEnvSet stores the trimmed contents of a file in an env var.
func CmdEnvSet(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("envset does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: envset VAR FILE")
	}

	value := strings.TrimSpace(ts.ReadFile(args[1]))
	ts.Setenv(args[0], value)
}

// CmdTaskID finds a task by title in a `list --json` dump and stores its
// ID in an env var.
func CmdTaskID(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("taskid does not support negation")
	}
	if len(args) != 3 {
		ts.Fatalf("usage: taskid FILE TITLE VAR")
	}

	var page task.Page
	data := ts.ReadFile(args[0])
	if err := json.Unmarshal([]byte(data), &page); err != nil {
		ts.Fatalf("parse task list: %v", err)
	}

	title := args[1]
	for _, item := range page.Items {
		if item.Title == title {
			ts.Setenv(args[2], strconv.Itoa(item.ID))
			return
		}
	}

	ts.Fatalf("task with title %q not found", title)
}

// CmdSeed stores a pending, low priority task directly in the backend.
func CmdSeed(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("seed does not support negation")
	}
	if len(args) < 1 || len(args) > 2 {
		ts.Fatalf("usage: seed TITLE [DESCRIPTION]")
	}

	description := "-"
	if len(args) == 2 {
		description = args[1]
	}
	scriptBackend(ts).Seed(task.Payload{
		Title:       args[0],
		Description: description,
		Status:      task.StatusPending,
		Priority:    task.PriorityLow,
	})
}

// CmdFailNext makes the backend fail the next request with a method.
func CmdFailNext(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("failnext does not support negation")
	}
	if len(args) < 2 || len(args) > 3 {
		ts.Fatalf("usage: failnext METHOD STATUS [DETAIL]")
	}

	status, err := strconv.Atoi(args[1])
	if err != nil {
		ts.Fatalf("invalid status %q", args[1])
	}
	var detail any
	if len(args) == 3 {
		detail = args[2]
	}
	scriptBackend(ts).FailNext(strings.ToUpper(args[0]), status, detail)
}

func scriptBackend(ts *testscript.TestScript) *fakeapi.Server {
	backend, ok := ts.Value(backendKey{}).(*fakeapi.Server)
	if !ok {
		ts.Fatalf("no fake backend in this script")
	}
	return backend
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find module root (go.mod)")
		}
		dir = parent
	}
}
