package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/conduit-lang/ringgen/internal/compiler/driver"
)

// testModule is the module path of the scratch modules built by these tests
const testModule = "example.com/ringtest"

// requireGo skips the test when the go command is unavailable or -short is set
func requireGo(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping toolchain test in short mode")
	}
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not found in PATH")
	}
}

// CompileTemplate runs the full pipeline on a template named name
func CompileTemplate(t *testing.T, name, source string) *driver.Result {
	t.Helper()

	compiler := driver.New(driver.DefaultOptions(), nil)
	return compiler.CompileSource(name, []byte(source))
}

// WriteModule writes files into a fresh module directory and returns it
func WriteModule(t *testing.T, files map[string]string) string {
	t.Helper()

	tmpDir := t.TempDir()
	files["go.mod"] = fmt.Sprintf("module %s\n\ngo 1.21\n", testModule)

	for path, content := range files {
		fullPath := filepath.Join(tmpDir, path)
		dir := filepath.Dir(fullPath)

		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create directory %s: %v", dir, err)
		}

		if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write file %s: %v", fullPath, err)
		}
	}

	return tmpDir
}

// runGo runs the go command in dir with workspaces disabled
func runGo(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	cmd := exec.Command("go", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GOWORK=off", "GOFLAGS=-mod=mod")
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		return output.String(), fmt.Errorf("go %s failed: %v\nOutput: %s", strings.Join(args, " "), err, output.String())
	}
	return output.String(), nil
}

// RunGoVet runs go vet on all packages in dir
func RunGoVet(t *testing.T, dir string, tags ...string) error {
	t.Helper()

	args := []string{"vet"}
	if len(tags) > 0 {
		args = append(args, "-tags", strings.Join(tags, ","))
	}
	_, err := runGo(t, dir, append(args, "./...")...)
	return err
}

// RunGoTest runs go test on all packages in dir
func RunGoTest(t *testing.T, dir string) (string, error) {
	t.Helper()
	return runGo(t, dir, "test", "-count=1", "./...")
}

// CheckGofmt reports every .go file in dir that gofmt would change
func CheckGofmt(t *testing.T, dir string) error {
	t.Helper()

	if _, err := exec.LookPath("gofmt"); err != nil {
		t.Skip("gofmt not found in PATH")
	}

	var allErrors []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && strings.HasSuffix(path, ".go") {
			cmd := exec.Command("gofmt", "-l", path)
			output, err := cmd.Output()
			if err != nil {
				return fmt.Errorf("gofmt failed on %s: %v", path, err)
			}

			if len(output) > 0 {
				allErrors = append(allErrors, fmt.Sprintf("File %s is not gofmt-compliant", path))
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(allErrors) > 0 {
		return fmt.Errorf("%s", strings.Join(allErrors, "\n"))
	}
	return nil
}
