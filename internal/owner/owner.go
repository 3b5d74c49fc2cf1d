// Package owner resolves the owner name stamped into artifact front
// matter.
//
// Resolution cascade:
//  1. Session cache
//  2. OTK_DEFAULT_OWNER environment variable
//  3. OTK_OWNER environment variable
//  4. .otk/.owner per-repo cache file
//  5. git config user.name
//  6. GITHUB_ACTOR environment variable
//  7. Interactive prompt, persisted to .otk/.owner
//  8. "unknown"
package owner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
)

// Unknown is the terminal fallback owner name.
const Unknown = "unknown"

// CacheFile is the per-repo owner cache path relative to the working
// directory.
const CacheFile = ".otk/.owner"

// PromptFunc asks the user for an owner name. It returns "" or Unknown
// when the user gives no answer.
type PromptFunc func() string

// Resolver resolves and caches the owner for one process.
type Resolver struct {
	// Dir is the working directory used for the cache file and git
	// repository detection.
	Dir string

	// Prompt is invoked as the last resort before Unknown. Nil
	// disables prompting.
	Prompt PromptFunc

	mu     sync.Mutex
	cached string
}

// NewResolver returns a resolver rooted at dir.
func NewResolver(dir string) *Resolver {
	return &Resolver{Dir: dir}
}

// Resolve walks the cascade and returns the owner name. The result is
// cached for the rest of the process; a prompted answer other than
// Unknown is also persisted to the cache file.
func (r *Resolver) Resolve() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != "" {
		return r.cached
	}

	if v := os.Getenv("OTK_DEFAULT_OWNER"); v != "" {
		r.cached = v
		return v
	}
	if v := os.Getenv("OTK_OWNER"); v != "" {
		r.cached = v
		return v
	}

	if v := r.readCacheFile(); v != "" {
		r.cached = v
		return v
	}

	if v := gitUserName(r.Dir); v != "" {
		r.cached = v
		return v
	}

	if v := os.Getenv("GITHUB_ACTOR"); v != "" {
		r.cached = v
		return v
	}

	if r.Prompt != nil {
		v := strings.TrimSpace(r.Prompt())
		if v == "" {
			v = Unknown
		}
		if v != Unknown {
			// Cache write failure is not worth failing resolution over.
			_ = r.writeCacheFile(v)
		}
		r.cached = v
		return v
	}

	r.cached = Unknown
	return Unknown
}

// Set persists name to the cache file and primes the session cache.
func (r *Resolver) Set(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("owner name must not be empty")
	}
	if err := r.writeCacheFile(name); err != nil {
		return err
	}
	r.mu.Lock()
	r.cached = name
	r.mu.Unlock()
	return nil
}

// ClearCache drops the session cache. Used in tests.
func (r *Resolver) ClearCache() {
	r.mu.Lock()
	r.cached = ""
	r.mu.Unlock()
}

// Source reports where the owner name would come from, for diagnostics.
// It does not consult or modify the session cache.
func (r *Resolver) Source() string {
	switch {
	case os.Getenv("OTK_DEFAULT_OWNER") != "":
		return "env:OTK_DEFAULT_OWNER"
	case os.Getenv("OTK_OWNER") != "":
		return "env:OTK_OWNER"
	case r.readCacheFile() != "":
		return "file:" + CacheFile
	case gitUserName(r.Dir) != "":
		return "git:user.name"
	case os.Getenv("GITHUB_ACTOR") != "":
		return "env:GITHUB_ACTOR"
	default:
		return "fallback"
	}
}

func (r *Resolver) cachePath() string {
	return filepath.Join(r.Dir, filepath.FromSlash(CacheFile))
}

func (r *Resolver) readCacheFile() string {
	data, err := os.ReadFile(r.cachePath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (r *Resolver) writeCacheFile(name string) error {
	path := r.cachePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(name+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write owner cache: %w", err)
	}
	return nil
}

// gitUserName reads user.name from git configuration. Repository-local
// config wins when dir is inside a repository, otherwise the global
// config is consulted directly.
func gitUserName(dir string) string {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err == nil {
		cfg, err := repo.ConfigScoped(config.SystemScope)
		if err == nil && cfg.User.Name != "" {
			return cfg.User.Name
		}
		return ""
	}

	cfg, err := config.LoadConfig(config.GlobalScope)
	if err != nil {
		return ""
	}
	return cfg.User.Name
}
