package autoload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bazelbuild/bazel-gazelle/testtools"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"

	"github.com/stackb/starlark-autoload/pkg/binding"
	"github.com/stackb/starlark-autoload/pkg/inflect"
	"github.com/stackb/starlark-autoload/pkg/logger"
	"github.com/stackb/starlark-autoload/pkg/namespace"
	"github.com/stackb/starlark-autoload/pkg/testutil"
)

func prepare(t *testing.T, files ...testtools.FileSpec) string {
	t.Helper()
	dir, _ := testutil.MustPrepareTestFiles(t, files)
	return dir
}

func newLoader(t *testing.T, dir string, options ...Option) (*Loader, *testutil.TestLogger) {
	t.Helper()
	log := testutil.NewTestLogger(t)
	l, err := New(append([]Option{WithRoot(dir), WithTag("test"), WithLogger(log)}, options...)...)
	require.NoError(t, err)
	return l, log
}

func mustSetup(t *testing.T, dir string, options ...Option) (*Loader, *testutil.TestLogger) {
	t.Helper()
	l, log := newLoader(t, dir, options...)
	require.NoError(t, l.Setup())
	return l, log
}

// indexOf returns the position of the first line equal to want, or -1.
func indexOf(lines []string, want string) int {
	for i, line := range lines {
		if line == want {
			return i
		}
	}
	return -1
}

func TestFileLoad(t *testing.T) {
	dir := prepare(t, testtools.FileSpec{Path: "x.star", Content: "X = 1\n"})
	l, log := mustSetup(t, dir)
	path := filepath.Join(dir, "x.star")

	if diff := cmp.Diff([]string{
		"autoload@test: autoload set for X, to be loaded from " + path,
	}, log.Lines()); diff != "" {
		t.Errorf("setup log (-want +got):\n%s", diff)
	}
	if _, ok := l.Top().Get("X"); ok {
		t.Fatal("X should not be loaded by setup")
	}

	value, err := l.Lookup("X")
	require.NoError(t, err)
	require.Equal(t, starlark.MakeInt(1), value)
	log.AssertLogged("^autoload@test: constant X loaded from file " + path + "$")

	rec, ok := l.Record("X")
	require.True(t, ok)
	require.Equal(t, binding.FileLoad, rec.Kind)
	require.Equal(t, path, rec.Path)
	require.Equal(t, l.Top(), rec.Parent)

	require.NoError(t, l.UnloadAll())
	log.AssertLogged("^autoload@test: X unloaded$")
	if _, ok := l.Top().Get("X"); ok {
		t.Error("X should be unbound after unload")
	}
	if l.Top().Autoload("X") {
		t.Error("X should have no autoload after unload")
	}
	require.Empty(t, l.Pending())
	require.Empty(t, l.Loaded())
}

func TestDefaultLogger(t *testing.T) {
	dir := prepare(t, testtools.FileSpec{Path: "x.star", Content: "X = 1\n"})
	path := filepath.Join(dir, "x.star")

	var lines []string
	require.NoError(t, logger.SetDefault(func(line string) {
		lines = append(lines, line)
	}))
	t.Cleanup(func() {
		logger.SetDefault(nil)
	})

	l, err := New(WithRoot(dir), WithTag("default"))
	require.NoError(t, err)
	explicit, log := newLoader(t, dir)

	// the default is read once, by New
	require.NoError(t, logger.SetDefault(nil))
	require.NoError(t, l.Setup())
	require.NoError(t, explicit.Setup())

	if diff := cmp.Diff([]string{
		"autoload@default: autoload set for X, to be loaded from " + path,
	}, lines); diff != "" {
		t.Errorf("default log (-want +got):\n%s", diff)
	}
	log.AssertLogged("^autoload@test: autoload set for X, to be loaded from " + path + "$")
}

func TestNamespaceDirectoryIsScannedLazily(t *testing.T) {
	dir := prepare(t,
		testtools.FileSpec{Path: "admin/user.star", Content: `User = struct(name = "user")`},
		testtools.FileSpec{Path: "admin/roles/editor.star", Content: "Editor = 1"},
	)
	l, log := mustSetup(t, dir)

	require.Equal(t, []string{"Admin"}, l.Pending())
	log.AssertLogged("^autoload@test: autoload set for Admin, to be autovivified from " + filepath.Join(dir, "admin") + "$")

	admin, err := l.Lookup("Admin")
	require.NoError(t, err)
	require.Equal(t, "<namespace Admin>", admin.String())
	require.Equal(t, []string{"Admin::Roles", "Admin::User"}, l.Pending())
	require.Equal(t, []string{"Admin"}, l.Loaded())
	log.AssertLogged("^autoload@test: namespace Admin autovivified from directory " + filepath.Join(dir, "admin") + "$")
	log.AssertLogged("^autoload@test: autoload set for Admin::User, to be loaded from " + filepath.Join(dir, "admin", "user.star") + "$")

	value, err := l.Eval("Admin.User.name")
	require.NoError(t, err)
	require.Equal(t, starlark.String("user"), value)
	log.AssertLogged("^autoload@test: constant Admin::User loaded from file " + filepath.Join(dir, "admin", "user.star") + "$")
	require.Equal(t, []string{"Admin::Roles"}, l.Pending())

	log.Reset()
	require.NoError(t, l.UnloadAll())
	lines := log.Lines()
	user := indexOf(lines, "autoload@test: Admin::User unloaded")
	ns := indexOf(lines, "autoload@test: Admin unloaded")
	if user < 0 || ns < 0 || user > ns {
		t.Errorf("want Admin::User unloaded before Admin, got:\n%s", strings.Join(lines, "\n"))
	}
	log.AssertLogged("^autoload@test: autoload for Admin::Roles removed$")
	require.Empty(t, l.Top().AttrNames())
	require.True(t, l.registry.Empty())
}

func TestConcurrentReferencesLoadOnce(t *testing.T) {
	dir := prepare(t, testtools.FileSpec{Path: "x.star", Content: "X = [1, 2, 3]\n"})
	l, log := mustSetup(t, dir)

	var loads int
	var mu sync.Mutex
	l.OnLoad("X", func(name string, value starlark.Value, path string) {
		mu.Lock()
		loads++
		mu.Unlock()
	})

	const n = 16
	values := make([]starlark.Value, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			values[i], errs[i] = l.Top().Attr("X")
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		require.True(t, values[i] == values[0], "reference %d saw a different value", i)
	}
	require.Equal(t, 1, loads)

	var loaded int
	for _, line := range log.Lines() {
		if strings.HasPrefix(line, "autoload@test: constant X loaded") {
			loaded++
		}
	}
	require.Equal(t, 1, loaded)
}

func TestLoadedValuesStartTheirOwnChain(t *testing.T) {
	dir := prepare(t,
		testtools.FileSpec{Path: "a.star", Content: "load(\"B\", \"B\")\npause()\nA = B\n"},
		testtools.FileSpec{Path: "b.star", Content: "load(\"Admin\", \"Admin\")\nB = struct(admin = Admin)\n"},
		testtools.FileSpec{Path: "admin/user.star", Content: "load(\"A\", \"A\")\nUser = 1\n"},
	)
	started := make(chan struct{})
	release := make(chan struct{})
	pause := starlark.NewBuiltin("pause", func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
		close(started)
		<-release
		return starlark.None, nil
	})
	l, _ := mustSetup(t, dir, WithPredeclared(starlark.StringDict{"pause": pause}))

	var aErr error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, aErr = l.Lookup("A")
	}()
	<-started

	// B has been loaded while A is still executing; its admin field was
	// handed to b.star by load().
	b, err := l.Lookup("B")
	require.NoError(t, err)
	admin, err := b.(starlark.HasAttrs).Attr("admin")
	require.NoError(t, err)

	var user starlark.Value
	var userErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		user, userErr = admin.(starlark.HasAttrs).Attr("User")
	}()
	// let the reference reach A, which is still loading
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.NoError(t, aErr)
	require.NoError(t, userErr)
	require.Equal(t, starlark.MakeInt(1), user)
}

func TestSetupConflictRegistersNothing(t *testing.T) {
	dir := prepare(t,
		testtools.FileSpec{Path: "a.star", Content: "A = 1"},
		testtools.FileSpec{Path: "foo_bar.star", Content: "FooBar = 1"},
		testtools.FileSpec{Path: "FooBar.star", Content: "FooBar = 2"},
	)
	l, log := newLoader(t, dir)

	err := l.Setup()
	require.Error(t, err)
	require.True(t, errors.Is(err, binding.ErrConflict), "got %v", err)
	require.Empty(t, l.Pending())
	require.Empty(t, l.Top().AttrNames())
	require.Empty(t, log.Lines())
	require.ErrorIs(t, l.UnloadAll(), binding.ErrNotSetUp)
}

func TestSetupNestedErrorsRegisterNothing(t *testing.T) {
	for name, tc := range map[string]struct {
		files []testtools.FileSpec
		want  error
	}{
		"collision": {
			files: []testtools.FileSpec{
				{Path: "x.star", Content: "X = 1"},
				{Path: "admin/foo_bar.star", Content: "FooBar = 1"},
				{Path: "admin/FooBar.star", Content: "FooBar = 2"},
			},
			want: binding.ErrConflict,
		},
		"invalid name": {
			files: []testtools.FileSpec{
				{Path: "x.star", Content: "X = 1"},
				{Path: "admin/roles/1st.star", Content: "First = 1"},
			},
			want: inflect.ErrInvalidName,
		},
	} {
		t.Run(name, func(t *testing.T) {
			dir := prepare(t, tc.files...)
			l, log := newLoader(t, dir)

			err := l.Setup()
			require.ErrorIs(t, err, tc.want)
			require.Empty(t, l.Pending())
			require.Empty(t, l.Top().AttrNames())
			require.Empty(t, log.Lines())
			require.ErrorIs(t, l.UnloadAll(), binding.ErrNotSetUp)
		})
	}
}

func TestRootsConflict(t *testing.T) {
	dir := prepare(t,
		testtools.FileSpec{Path: "one/x.star", Content: "X = 1"},
		testtools.FileSpec{Path: "two/x.star", Content: "X = 2"},
	)
	l, err := New(WithRoot(filepath.Join(dir, "one")), WithRoot(filepath.Join(dir, "two")))
	require.NoError(t, err)

	err = l.Setup()
	var conflict *binding.ConflictError
	require.True(t, errors.As(err, &conflict), "got %v", err)
	require.Equal(t, []string{filepath.Join(dir, "one", "x.star"), filepath.Join(dir, "two", "x.star")}, conflict.Paths)
	require.False(t, l.Top().Autoload("X"))
}

func TestExpectedSymbolMissing(t *testing.T) {
	dir := prepare(t,
		testtools.FileSpec{Path: "x.star", Content: "Y = 1\n"},
		testtools.FileSpec{Path: "z.star", Content: "Z = 2\n"},
	)
	l, _ := mustSetup(t, dir)
	path := filepath.Join(dir, "x.star")

	_, err := l.Lookup("X")
	require.ErrorIs(t, err, binding.ErrExpectedSymbolMissing)
	require.EqualError(t, err, fmt.Sprintf("expected file %s to define constant X, but didn't", path))
	if _, ok := l.Top().Get("X"); ok {
		t.Error("X should stay unbound")
	}

	_, err = l.Lookup("X")
	var orphan *binding.OrphanReferenceError
	require.True(t, errors.As(err, &orphan), "got %v", err)
	require.True(t, orphan.Attempted)

	// other names are not affected
	z, err := l.Lookup("Z")
	require.NoError(t, err)
	require.Equal(t, starlark.MakeInt(2), z)

	require.NoError(t, os.WriteFile(path, []byte("X = 3\n"), 0o644))
	require.NoError(t, l.Reregister("X"))
	x, err := l.Lookup("X")
	require.NoError(t, err)
	require.Equal(t, starlark.MakeInt(3), x)

	require.Error(t, l.Reregister("X"))
}

func TestLoadErrorsPropagate(t *testing.T) {
	dir := prepare(t,
		testtools.FileSpec{Path: "syntax.star", Content: "Syntax = (\n"},
		testtools.FileSpec{Path: "runtime.star", Content: "Runtime = 1 // 0\n"},
	)
	l, _ := mustSetup(t, dir)

	_, err := l.Lookup("Syntax")
	require.Error(t, err)
	require.False(t, errors.Is(err, binding.ErrExpectedSymbolMissing))
	require.Contains(t, err.Error(), filepath.Join(dir, "syntax.star"))

	_, err = l.Lookup("Runtime")
	var evalErr *starlark.EvalError
	require.True(t, errors.As(err, &evalErr), "got %T %v", err, err)
	require.Contains(t, evalErr.Msg, "division by zero")
	require.Equal(t, []string{"Runtime", "Syntax"}, namesOf(l.registry.Attempts()))
}

func namesOf(bindings []*binding.Binding) []string {
	out := make([]string, len(bindings))
	for i, b := range bindings {
		out[i] = b.Name
	}
	return out
}

func TestLifecycle(t *testing.T) {
	dir := prepare(t, testtools.FileSpec{Path: "x.star", Content: "X = 1"})
	l, _ := newLoader(t, dir)

	require.ErrorIs(t, l.UnloadAll(), binding.ErrNotSetUp)
	_, err := l.Lookup("X")
	require.ErrorIs(t, err, binding.ErrNotSetUp)

	require.NoError(t, l.Setup())
	require.ErrorIs(t, l.Setup(), binding.ErrAlreadySetUp)
	require.ErrorIs(t, l.PushDir(dir, nil), binding.ErrAlreadySetUp)

	require.NoError(t, l.UnloadAll())
	require.NoError(t, l.UnloadAll())
	require.True(t, l.registry.Empty())

	require.NoError(t, l.Setup())
	require.Equal(t, []string{"X"}, l.Pending())
}

func TestReload(t *testing.T) {
	dir := prepare(t, testtools.FileSpec{Path: "x.star", Content: "X = 1"})
	l, log := mustSetup(t, dir)

	_, err := l.Lookup("X")
	require.NoError(t, err)
	before, _ := l.Record("X")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.star"), []byte("X = 2"), 0o644))
	require.NoError(t, l.Reload())
	log.AssertLogged("^autoload@test: X unloaded$")

	x, err := l.Lookup("X")
	require.NoError(t, err)
	require.Equal(t, starlark.MakeInt(2), x)

	after, _ := l.Record("X")
	require.Equal(t, before.Name, after.Name)
	require.Equal(t, before.Path, after.Path)
	require.Equal(t, before.Kind, after.Kind)
	require.Equal(t, before.Parent, after.Parent)
	require.Equal(t, []string{"X"}, l.Loaded())
}

func TestExplicitNamespaceFile(t *testing.T) {
	dir := prepare(t,
		testtools.FileSpec{Path: "admin.star", Content: "Admin = namespace(version = 2)\n"},
		testtools.FileSpec{Path: "admin/user.star", Content: `User = "u"`},
	)
	l, log := mustSetup(t, dir)
	require.Equal(t, []string{"Admin"}, l.Pending())

	user, err := l.Lookup("Admin::User")
	require.NoError(t, err)
	require.Equal(t, starlark.String("u"), user)

	admin, err := l.Lookup("Admin")
	require.NoError(t, err)
	ns, ok := admin.(*namespace.Namespace)
	require.True(t, ok, "got %T", admin)
	require.Equal(t, "Admin", ns.Name())

	version, err := l.Eval("Admin.version")
	require.NoError(t, err)
	require.Equal(t, starlark.MakeInt(2), version)

	rec, ok := l.Record("Admin")
	require.True(t, ok)
	require.Equal(t, filepath.Join(dir, "admin"), rec.Dir)
	log.AssertLogged("^autoload@test: constant Admin loaded from file " + filepath.Join(dir, "admin.star") + "$")
}

func TestExplicitNamespaceFileMustDefineNamespace(t *testing.T) {
	dir := prepare(t,
		testtools.FileSpec{Path: "admin.star", Content: "Admin = 1\n"},
		testtools.FileSpec{Path: "admin/user.star", Content: `User = "u"`},
	)
	l, _ := mustSetup(t, dir)

	_, err := l.Lookup("Admin::User")
	require.ErrorIs(t, err, binding.ErrExpectedSymbolMissing)
	require.Contains(t, err.Error(), "want a namespace")
}

func TestLoadCycle(t *testing.T) {
	dir := prepare(t,
		testtools.FileSpec{Path: "x.star", Content: "load(\"Y\", \"Y\")\nX = Y\n"},
		testtools.FileSpec{Path: "y.star", Content: "load(\"X\", \"X\")\nY = X\n"},
	)
	l, _ := mustSetup(t, dir)

	_, err := l.Lookup("X")
	var cycle *CycleError
	require.True(t, errors.As(err, &cycle), "got %v", err)
	require.Equal(t, []string{"X", "Y", "X"}, cycle.Chain)
}

func TestLoadByPath(t *testing.T) {
	dir := prepare(t,
		testtools.FileSpec{Path: "x.star", Content: "load(\"admin/user.star\", \"User\", \"helper\")\nX = User + helper\n"},
		testtools.FileSpec{Path: "y.star", Content: "load(\"Admin::User\", \"User\")\nY = User\n"},
		testtools.FileSpec{Path: "admin/user.star", Content: "helper = \"!\"\nUser = \"u\"\n"},
	)
	l, _ := mustSetup(t, dir)

	x, err := l.Lookup("X")
	require.NoError(t, err)
	require.Equal(t, starlark.String("u!"), x)
	require.Equal(t, []string{"Admin", "Admin::User", "X"}, l.Loaded())

	rec, ok := l.Record("Admin::User")
	require.True(t, ok)
	require.Equal(t, filepath.Join(dir, "admin", "user.star"), rec.Path)

	y, err := l.Lookup("Y")
	require.NoError(t, err)
	require.Equal(t, starlark.String("u"), y)
}

func TestUnmanagedFilesExecuteOncePerSetup(t *testing.T) {
	dir := prepare(t,
		testtools.FileSpec{Path: "app/x.star", Content: "load(\"../lib/helpers.star\", \"greeting\")\nX = greeting\n"},
		testtools.FileSpec{Path: "app/y.star", Content: "load(\"../lib/helpers.star\", \"greeting\")\nY = greeting\n"},
		testtools.FileSpec{Path: "lib/helpers.star", Content: "print(\"helpers\")\ngreeting = \"hi\"\n"},
	)
	l, log := mustSetup(t, filepath.Join(dir, "app"))

	count := func() (n int) {
		for _, line := range log.Lines() {
			if line == "autoload@test: print: helpers" {
				n++
			}
		}
		return
	}

	for _, name := range []string{"X", "Y"} {
		value, err := l.Lookup(name)
		require.NoError(t, err)
		require.Equal(t, starlark.String("hi"), value)
	}
	require.Equal(t, 1, count())
	require.Equal(t, []string{"X", "Y"}, l.Loaded())

	require.NoError(t, l.Reload())
	_, err := l.Lookup("X")
	require.NoError(t, err)
	require.Equal(t, 2, count())
}

func TestPreload(t *testing.T) {
	dir := prepare(t,
		testtools.FileSpec{Path: "x.star", Content: "X = 1"},
		testtools.FileSpec{Path: "y.star", Content: "Y = 1"},
	)
	path := filepath.Join(dir, "y.star")
	l, log := mustSetup(t, dir, WithPreload(path))

	log.AssertLogged("^autoload@test: preloading " + path + "$")
	require.Equal(t, []string{"Y"}, l.Loaded())
	require.Equal(t, []string{"X"}, l.Pending())
}

func TestEagerLoad(t *testing.T) {
	dir := prepare(t,
		testtools.FileSpec{Path: "x.star", Content: "X = 1"},
		testtools.FileSpec{Path: "admin/user.star", Content: "User = 1"},
		testtools.FileSpec{Path: "admin/roles/editor.star", Content: "Editor = 1"},
	)
	l, _ := mustSetup(t, dir, WithEagerLoad(true))

	require.Empty(t, l.Pending())
	require.Equal(t, []string{"Admin", "X", "Admin::Roles", "Admin::User", "Admin::Roles::Editor"}, l.Loaded())
}

func TestEagerLoadStopsAtFirstError(t *testing.T) {
	dir := prepare(t,
		testtools.FileSpec{Path: "a.star", Content: "Nope = 1"},
		testtools.FileSpec{Path: "b.star", Content: "B = 1"},
	)
	l, _ := mustSetup(t, dir)

	err := l.EagerLoad()
	require.ErrorIs(t, err, binding.ErrExpectedSymbolMissing)
	require.Contains(t, err.Error(), "eager loading A")
	require.Equal(t, []string{"B"}, l.Pending())
}

func TestOnLoad(t *testing.T) {
	dir := prepare(t,
		testtools.FileSpec{Path: "x.star", Content: "X = 1"},
		testtools.FileSpec{Path: "admin/user.star", Content: "User = 1"},
	)
	l, _ := newLoader(t, dir)

	var all, admin []string
	l.OnLoad("*", func(name string, value starlark.Value, path string) {
		all = append(all, name)
	})
	l.OnLoad("Admin", func(name string, value starlark.Value, path string) {
		admin = append(admin, path)
	})
	require.NoError(t, l.Setup())
	require.NoError(t, l.EagerLoad())

	require.Equal(t, []string{"Admin", "X", "Admin::User"}, all)
	require.Equal(t, []string{filepath.Join(dir, "admin")}, admin)
}

func TestCollapseAndIgnore(t *testing.T) {
	dir := prepare(t,
		testtools.FileSpec{Path: "concerns/taggable.star", Content: "Taggable = 1"},
		testtools.FileSpec{Path: "tasks/deploy.star", Content: "Deploy = 1"},
	)
	l, _ := mustSetup(t, dir, WithCollapse("concerns"), WithIgnore("tasks"))

	require.Equal(t, []string{"Taggable"}, l.Pending())
	_, err := l.Lookup("Taggable")
	require.NoError(t, err)

	_, err = l.Lookup("Tasks")
	var notFound *namespace.NotFoundError
	require.True(t, errors.As(err, &notFound), "got %v", err)

	// a collapsed file loaded by path defines the same name
	_, err = l.Require(filepath.Join(dir, "concerns", "taggable.star"))
	require.NoError(t, err)
	require.Equal(t, []string{"Taggable"}, l.Loaded())
}

func TestExistingMembers(t *testing.T) {
	dir := prepare(t,
		testtools.FileSpec{Path: "x.star", Content: "X = 1"},
		testtools.FileSpec{Path: "admin/user.star", Content: "User = 1"},
	)
	app := namespace.New("App")
	admin := namespace.New("App::Admin")
	app.Set("Admin", admin)
	app.Set("X", starlark.MakeInt(0))

	log := testutil.NewTestLogger(t)
	l, err := New(WithNamespaceRoot(dir, app), WithTag("test"), WithLogger(log))
	require.NoError(t, err)
	require.NoError(t, l.Setup())

	log.AssertLogged("^autoload@test: file " + filepath.Join(dir, "x.star") + " is ignored because App::X is already defined$")
	require.Equal(t, []string{"App::Admin::User"}, l.Pending())

	user, err := l.Lookup("App::Admin::User")
	require.NoError(t, err)
	require.Equal(t, starlark.MakeInt(1), user)

	require.NoError(t, l.UnloadAll())
	got, ok := app.Get("Admin")
	require.True(t, ok, "namespaces the loader did not create are kept")
	require.Equal(t, admin, got)
	_, ok = admin.Get("User")
	require.False(t, ok)
	x, _ := app.Get("X")
	require.Equal(t, starlark.MakeInt(0), x)
}

func TestLookupSuggestions(t *testing.T) {
	dir := prepare(t, testtools.FileSpec{Path: "admin/user.star", Content: "User = 1"})
	l, _ := mustSetup(t, dir)

	_, err := l.Lookup("Admn")
	require.EqualError(t, err, "uninitialized constant Admn (did you mean Admin?)")
}

func TestInflection(t *testing.T) {
	dir := prepare(t, testtools.FileSpec{Path: "html_parser.star", Content: "HTMLParser = 1"})
	l, _ := mustSetup(t, dir, WithInflection(map[string]string{"html_parser": "HTMLParser"}))

	value, err := l.Lookup("HTMLParser")
	require.NoError(t, err)
	require.Equal(t, starlark.MakeInt(1), value)
}

func TestNewErrors(t *testing.T) {
	_, err := New(WithRoot("/does/not/exist"))
	require.Error(t, err)

	_, err = New(WithLogger(42))
	require.Error(t, err)
}
