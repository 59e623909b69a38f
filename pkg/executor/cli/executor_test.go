package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/entrhq/phonebook/pkg/directory"
	"github.com/entrhq/phonebook/pkg/logging"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// runSession feeds lines to a fresh executor and returns everything it printed.
func runSession(t *testing.T, dir Directory, dataFile string, lines ...string) string {
	t.Helper()

	var out bytes.Buffer
	e := NewExecutor(dir,
		WithReader(strings.NewReader(strings.Join(lines, "\n")+"\n")),
		WithWriter(&out),
		WithDataFile(dataFile),
	)

	require.NoError(t, e.Run(context.Background()))
	return out.String()
}

func TestMenuIsPrinted(t *testing.T) {
	out := runSession(t, directory.NewStore(), "unused.json", "8")

	for _, line := range []string{
		"Phone Book Menu:",
		"1. Add Entry",
		"2. Display Entries",
		"3. Search Entries",
		"4. Update Entry",
		"5. Delete Entry",
		"6. Save Phone Book",
		"7. Load Phone Book",
		"8. Exit",
		"Enter your choice: ",
		"Exiting...",
	} {
		assert.Contains(t, out, line)
	}
}

func TestAddAndDisplay(t *testing.T) {
	store := directory.NewStore()
	out := runSession(t, store, "unused.json",
		"2",
		"1", "1", "Bob", "555-1",
		"1", "2", "alice", "555-2",
		"1", "2", "Again", "555-3",
		"1", "3", "", "555-4",
		"1", "", "Nobody", "0",
		"2",
		"8",
	)

	assert.Contains(t, out, "Phone book is empty!")
	assert.Equal(t, 2, strings.Count(out, "Entry added successfully!"))
	assert.Contains(t, out, "An entry with the same national ID already exists. Entry not added.")
	assert.Contains(t, out, "No name entered. Entry not added.")
	assert.Contains(t, out, "No national ID entered. Entry not added.")

	alice := strings.Index(out, "National ID: 2\tName: alice\tPhone Number: 555-2")
	bob := strings.Index(out, "National ID: 1\tName: Bob\tPhone Number: 555-1")
	require.NotEqual(t, -1, alice)
	require.NotEqual(t, -1, bob)
	assert.Less(t, alice, bob, "entries should be listed by name")
}

func TestAddNameTooLong(t *testing.T) {
	out := runSession(t, directory.NewStore(), "unused.json",
		"1", "1", strings.Repeat("a", 51), "555",
		"8",
	)
	assert.Contains(t, out, "Name exceeds the maximum character limit of 50. Entry not added.")
}

func TestSearch(t *testing.T) {
	store := directory.NewStore()
	store.Add("1", "Alice", "555-0100")
	store.Add("2", "Bob", "777")

	out := runSession(t, store, "unused.json",
		"3", "",
		"3", "zzz",
		"3", "555",
		"8",
	)

	assert.Contains(t, out, "No search term entered.")
	assert.Contains(t, out, "No matching entries found.")
	assert.Contains(t, out, "Matching Entries (1):\nNational ID: 1\tName: Alice\tPhone Number: 555-0100")
}

func TestUpdate(t *testing.T) {
	store := directory.NewStore()
	store.Add("1", "Alice", "100")

	out := runSession(t, store, "unused.json",
		"4", "",
		"4", "9",
		"4", "1", "Alicia", "101",
		"8",
	)

	assert.Contains(t, out, "No national ID entered.")
	assert.Contains(t, out, "No matching entry found.")
	assert.Contains(t, out, "National ID: 1\tName: Alice\tPhone Number: 100")
	assert.Contains(t, out, "Entry updated successfully!")

	got, err := store.Get("1")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", got.Name)
	assert.Equal(t, "101", got.PhoneNumber)
}

func TestUpdateStrict(t *testing.T) {
	store := directory.NewStore(directory.WithStrictUpdates())
	store.Add("1", "Alice", "100")

	out := runSession(t, store, "unused.json",
		"4", "1", "", "101",
		"8",
	)

	assert.Contains(t, out, "No name entered. Entry not updated.")
	got, _ := store.Get("1")
	assert.Equal(t, "Alice", got.Name)
}

func TestDelete(t *testing.T) {
	store := directory.NewStore()
	store.Add("1", "Alice", "100")

	out := runSession(t, store, "unused.json",
		"5", "1",
		"5", "1",
		"8",
	)

	assert.Contains(t, out, "Entry deleted successfully!")
	assert.Contains(t, out, "No matching entry found.")
	assert.Equal(t, 0, store.Count())
}

func TestSaveAndLoad(t *testing.T) {
	dataFile := filepath.Join(t.TempDir(), "phonebook.json")

	first := directory.NewStore()
	out := runSession(t, first, dataFile,
		"7",
		"1", "1", "Alice", "100",
		"6",
		"8",
	)
	assert.Contains(t, out, "Phone book file does not exist.")
	assert.Contains(t, out, "Phone book saved successfully!")

	second := directory.NewStore()
	out = runSession(t, second, dataFile, "7", "2", "8")
	assert.Contains(t, out, "Phone book loaded successfully!")
	assert.Contains(t, out, "National ID: 1\tName: Alice\tPhone Number: 100")
}

func TestLoadMalformed(t *testing.T) {
	dataFile := filepath.Join(t.TempDir(), "phonebook.json")
	require.NoError(t, os.WriteFile(dataFile, []byte("{not json"), 0600))

	out := runSession(t, directory.NewStore(), dataFile, "7", "8")
	assert.Contains(t, out, "Failed to load phone book: phone book file is malformed")
}

func TestSaveFailure(t *testing.T) {
	dataFile := t.TempDir() // a directory cannot be replaced by a file
	require.NoError(t, os.WriteFile(filepath.Join(dataFile, "keep"), nil, 0600))

	out := runSession(t, directory.NewStore(), dataFile, "6", "8")
	assert.Contains(t, out, "Failed to save phone book: ")
}

func TestInvalidChoice(t *testing.T) {
	out := runSession(t, directory.NewStore(), "unused.json", "9", "add", "8")
	assert.Equal(t, 2, strings.Count(out, "Invalid choice. Please try again."))
}

func TestEndOfInput(t *testing.T) {
	t.Run("between actions", func(t *testing.T) {
		var out bytes.Buffer
		e := NewExecutor(directory.NewStore(), WithReader(strings.NewReader("")), WithWriter(&out))
		require.NoError(t, e.Run(context.Background()))
		assert.Contains(t, out.String(), "Exiting...")
	})

	t.Run("inside a prompt", func(t *testing.T) {
		store := directory.NewStore()
		var out bytes.Buffer
		e := NewExecutor(store, WithReader(strings.NewReader("1\n1\n")), WithWriter(&out))
		require.NoError(t, e.Run(context.Background()))
		assert.Equal(t, 0, store.Count())
	})

	t.Run("last line without newline", func(t *testing.T) {
		store := directory.NewStore()
		var out bytes.Buffer
		e := NewExecutor(store, WithReader(strings.NewReader("1\n1\nAlice\n100")), WithWriter(&out))
		require.NoError(t, e.Run(context.Background()))
		assert.Equal(t, 1, store.Count())
	})
}

func TestWindowsLineEndings(t *testing.T) {
	store := directory.NewStore()
	var out bytes.Buffer
	e := NewExecutor(store, WithReader(strings.NewReader("1\r\n7\r\nZed\r\n1\r\n8\r\n")), WithWriter(&out))
	require.NoError(t, e.Run(context.Background()))

	got, err := store.Get("7")
	require.NoError(t, err)
	assert.Equal(t, "Zed", got.Name)
}

func TestContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	e := NewExecutor(directory.NewStore(), WithReader(strings.NewReader("8\n")), WithWriter(&out))
	err := e.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

// syncBuffer lets a test read output while Run is still writing it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestCancelWhilePromptPending(t *testing.T) {
	tests := []struct {
		name    string
		input   string // typed before the cancel
		waitFor string // prompt that is pending when ctx is canceled
	}{
		{name: "menu choice", waitFor: "Enter your choice: "},
		{name: "inside add", input: "1\n9\n", waitFor: "Enter name: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dataFile := filepath.Join(t.TempDir(), "phonebook.json")
			store := directory.NewStore()
			_, err := store.Add("1", "Alice", "100")
			require.NoError(t, err)

			pr, pw := io.Pipe()
			defer pw.Close()

			out := &syncBuffer{}
			e := NewExecutor(store, WithReader(pr), WithWriter(out), WithDataFile(dataFile))

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			errc := make(chan error, 1)
			go func() { errc <- e.Run(ctx) }()

			if tt.input != "" {
				_, err := io.WriteString(pw, tt.input)
				require.NoError(t, err)
			}
			require.Eventually(t, func() bool {
				return strings.Contains(out.String(), tt.waitFor)
			}, time.Second, 5*time.Millisecond)

			cancel()

			select {
			case err := <-errc:
				assert.ErrorIs(t, err, context.Canceled)
			case <-time.After(time.Second):
				t.Fatal("Run did not return after cancel")
			}

			// A save typed after the cancel must be ignored.
			_, err = io.WriteString(pw, "6\n")
			require.NoError(t, err)
			require.NoError(t, pw.Close())

			_, err = os.Stat(dataFile)
			assert.True(t, os.IsNotExist(err), "data file should not be written")
			assert.Equal(t, 1, store.Count())
			assert.NotContains(t, out.String(), "Phone book saved successfully!")
		})
	}
}

func TestSessionLogOmitsPersonalData(t *testing.T) {
	dataFile := filepath.Join(t.TempDir(), "phonebook.json")
	require.NoError(t, os.WriteFile(dataFile,
		[]byte(`[{"NationalId":"880101-1234","Name":"A","PhoneNumber":"1"},{"NationalId":"880101-1234","Name":"B","PhoneNumber":"2"}]`),
		0600))

	var logs bytes.Buffer
	store := directory.NewStore()
	e := NewExecutor(store,
		WithReader(strings.NewReader(strings.Join([]string{
			"1", "770202-5678", "Margit", "555-0199",
			"1", "770202-5678", "Again", "555-0100",
			"3", "Margit",
			"4", "770202-5678", "Margit K", "555-0142",
			"5", "770202-5678",
			"7",
			"8",
		}, "\n")+"\n")),
		WithWriter(io.Discard),
		WithDataFile(dataFile),
		WithLogger(logging.NewWriterLogger("shell", &logs)),
	)
	require.NoError(t, e.Run(context.Background()))

	got := logs.String()
	assert.Contains(t, got, "Added entry")
	assert.Contains(t, got, "Add rejected: an entry with the same national ID already exists")
	assert.Contains(t, got, "Search matched 1 entries")
	assert.Contains(t, got, "Updated entry")
	assert.Contains(t, got, "Deleted entry")
	assert.Contains(t, got, "Load failed: parse")

	for _, secret := range []string{"770202-5678", "880101-1234", "Margit", "555-01"} {
		assert.NotContains(t, got, secret)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("terminal gone") }

func TestReadFailure(t *testing.T) {
	var out bytes.Buffer
	e := NewExecutor(directory.NewStore(), WithReader(failingReader{}), WithWriter(&out))
	err := e.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read input")
}
