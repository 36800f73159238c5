package werk

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/golang/groupcache/lru"

	"github.com/werktool/werk/internal/resolve/glob"
)

const resolverCacheMaxEntries = 512

// InputResolver resolves the input definitions of tasks to concrete inputs.
//
// Glob resolver results are cached per pattern, source sets that are shared
// by multiple tasks of a component are only resolved once.
// The resolver is safe for concurrent use.
type InputResolver struct {
	repoDir          string
	globPathResolver *glob.Resolver

	mu    sync.Mutex
	cache *lru.Cache
}

// NewInputResolver returns an InputResolver that caches glob resolver
// results.
func NewInputResolver(repoDir string) *InputResolver {
	return &InputResolver{
		repoDir:          repoDir,
		globPathResolver: &glob.Resolver{},
		cache:            lru.New(resolverCacheMaxEntries),
	}
}

// Resolve resolves the inputs of the task to concrete files and strings.
// The inputs of a task are the files of its source sets, its configuration
// file and its external dependency coordinates.
// A source set pattern that matches no files causes an error.
// The returned inputs are deduplicated and sorted.
func (i *InputResolver) Resolve(task *Task) (*Inputs, error) {
	paths := []string{task.CfgFilepath}

	for _, sourceSet := range task.SourceSets {
		sourceSetPaths, err := i.resolveSourceSet(sourceSet)
		if err != nil {
			return nil, fmt.Errorf("resolving source set %q failed: %w", sourceSet, err)
		}

		paths = append(paths, sourceSetPaths...)
	}

	inputs, err := i.pathsToUniqInputs(paths)
	if err != nil {
		return nil, err
	}

	inputs = append(inputs, AsInputStrings(task.ExternalDependencies...)...)

	result := NewInputs(inputs)
	result.Sort()

	return result, nil
}

func (i *InputResolver) resolveSourceSet(sourceSet *SourceSet) ([]string, error) {
	var result []string

	for _, pattern := range sourceSet.FilePatterns {
		globPath := pattern
		if !filepath.IsAbs(globPath) {
			globPath = filepath.Join(sourceSet.Directory, globPath)
		}

		paths, err := i.resolveCachedGlob(globPath)
		if err != nil {
			return nil, err
		}

		if len(paths) == 0 {
			return nil, fmt.Errorf("%q matched 0 files", globPath)
		}

		result = append(result, paths...)
	}

	return result, nil
}

func (i *InputResolver) resolveCachedGlob(globPath string) ([]string, error) {
	i.mu.Lock()
	if cached, exist := i.cache.Get(globPath); exist {
		i.mu.Unlock()
		return cached.([]string), nil
	}
	i.mu.Unlock()

	result, err := i.globPathResolver.Resolve(globPath)
	if err != nil {
		return nil, err
	}

	i.mu.Lock()
	i.cache.Add(globPath, result)
	i.mu.Unlock()

	return result, nil
}

func (i *InputResolver) pathsToUniqInputs(paths []string) ([]Input, error) {
	result := make([]Input, 0, len(paths))
	dedupMap := make(map[string]struct{}, len(paths))

	for _, path := range paths {
		if _, exist := dedupMap[path]; exist {
			continue
		}

		dedupMap[path] = struct{}{}

		relPath, err := filepath.Rel(i.repoDir, path)
		if err != nil {
			return nil, err
		}

		result = append(result, NewInputFile(path, relPath))
	}

	return result, nil
}
