package jsonstore

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"taskkeeper/pkg/fsutil"
)

// Extension - расширение файла данных.
type Extension string

// Поддерживаемые расширения. CSV объявлен, но ядром не используется.
const (
	ExtJSON Extension = "json"
	ExtCSV  Extension = "csv"
)

func (e Extension) valid() bool {
	return e == ExtJSON || e == ExtCSV
}

// Environment выбирает дерево каталогов данных.
type Environment string

const (
	EnvProduction Environment = "production"
	EnvTest       Environment = "test"
)

// ParseEnvironment разбирает имя окружения без учета регистра.
func ParseEnvironment(s string) (Environment, error) {
	env := Environment(strings.ToLower(strings.TrimSpace(s)))
	switch env {
	case EnvProduction, EnvTest:
		return env, nil
	}
	return "", configurationError("unknown storage environment %q", s)
}

var kindPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// PathResolver детерминированно отображает (тип сущности, окружение) в путь к файлу:
//
//	production: <root>/data/<ext>/<Kind>.<ext>
//	test:       <root>/testdata/data/<ext>/<Kind>.<ext>
type PathResolver struct {
	root string
	env  Environment
}

// NewPathResolver создает resolver для корня root.
func NewPathResolver(root string, env Environment) (*PathResolver, error) {
	if _, err := ParseEnvironment(string(env)); err != nil {
		return nil, err
	}
	if root == "" {
		root = "."
	}
	return &PathResolver{root: root, env: env}, nil
}

// Root возвращает корень дерева данных.
func (r *PathResolver) Root() string { return r.root }

// Environment возвращает окружение resolver.
func (r *PathResolver) Environment() Environment { return r.env }

// Resolve возвращает путь к файлу сущности kind.
func (r *PathResolver) Resolve(kind string, ext Extension) (string, error) {
	if !kindPattern.MatchString(kind) {
		return "", configurationError("invalid entity kind %q", kind)
	}
	if !ext.valid() {
		return "", configurationError("unsupported extension %q", ext)
	}

	base := filepath.Join(r.root, "data")
	if r.env == EnvTest {
		base = filepath.Join(r.root, "testdata", "data")
	}
	return filepath.Join(base, string(ext), fmt.Sprintf("%s.%s", kind, ext)), nil
}

// Ensure разрешает путь и создает каталог и файл, если их нет.
// Существующий файл не изменяется.
func (r *PathResolver) Ensure(kind string, ext Extension, initial []byte) (string, error) {
	path, err := r.Resolve(kind, ext)
	if err != nil {
		return "", err
	}
	if _, err := fsutil.Ensure(path, initial); err != nil {
		return "", persistenceError("ensure", path, err)
	}
	return path, nil
}
