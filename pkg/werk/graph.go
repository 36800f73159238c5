package werk

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dominikbraun/graph"

	"github.com/werktool/werk/internal/set"
)

// TaskGraph is the acyclic dependency graph of the tasks derived from a
// registry.
// A TaskGraph is immutable and safe for concurrent readers.
type TaskGraph struct {
	tasks map[string]*Task
	graph graph.Graph[string, string]
	order []string
}

// BuildGraph derives the task graph from the registered entities.
// One task is created per declared build action: compile, package per
// binary, test per test suite. The registry is sealed before the graph is
// constructed.
//
// It fails with an UnresolvedReferenceError when an entity references a name
// that is not registered and with a CyclicDependencyError when the derived
// edges form a cycle.
func BuildGraph(registry *Registry) (*TaskGraph, error) {
	registry.Seal()

	tasks, err := deriveTasks(registry)
	if err != nil {
		return nil, err
	}

	return newTaskGraph(tasks)
}

func newTaskGraph(tasks []*Task) (*TaskGraph, error) {
	SortTasksByID(tasks)

	g := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())

	taskMap := make(map[string]*Task, len(tasks))

	for _, task := range tasks {
		taskMap[task.ID] = task

		if err := g.AddVertex(task.ID); err != nil {
			return nil, fmt.Errorf("adding task %q to the graph failed: %w", task.ID, err)
		}
	}

	for _, task := range tasks {
		for _, dep := range task.DependsOn {
			err := g.AddEdge(dep, task.ID)
			if err == nil || errors.Is(err, graph.ErrEdgeAlreadyExists) {
				continue
			}

			if errors.Is(err, graph.ErrEdgeCreatesCycle) {
				return nil, newCyclicDependencyError(g, task.ID, dep)
			}

			return nil, fmt.Errorf("adding edge %q -> %q to the graph failed: %w", dep, task.ID, err)
		}
	}

	order, err := graph.StableTopologicalSort(g, func(a, b string) bool {
		return a < b
	})
	if err != nil {
		return nil, fmt.Errorf("topological sort failed: %w", err)
	}

	return &TaskGraph{
		tasks: taskMap,
		graph: g,
		order: order,
	}, nil
}

// newCyclicDependencyError returns a CyclicDependencyError describing the
// cycle that adding the edge dep -> taskID would close.
func newCyclicDependencyError(g graph.Graph[string, string], taskID, dep string) error {
	path, err := graph.ShortestPath(g, taskID, dep)
	if err != nil {
		return &CyclicDependencyError{Cycle: []string{dep, taskID, dep}}
	}

	return &CyclicDependencyError{Cycle: append(path, taskID)}
}

func deriveTasks(registry *Registry) ([]*Task, error) {
	var result []*Task

	for _, component := range registry.Components() {
		tasks, err := componentTasks(registry, component)
		if err != nil {
			return nil, err
		}

		result = append(result, tasks...)
	}

	return result, nil
}

func componentTasks(registry *Registry, component *Component) ([]*Task, error) {
	var result []*Task

	compileTask, err := newCompileTask(registry, component)
	if err != nil {
		return nil, err
	}

	if compileTask != nil {
		result = append(result, compileTask)
	}

	for _, binary := range component.Binaries() {
		result = append(result, newPackageTask(component, binary, compileTask))
	}

	if testSuite := component.TestSuite(); testSuite != nil {
		testTask, err := newTestTask(registry, component, testSuite, compileTask)
		if err != nil {
			return nil, err
		}

		result = append(result, testTask)
	}

	return result, nil
}

// newCompileTask returns the compile task of the component or nil if the
// component has no source sets.
// The task depends on the package tasks of all locally referenced
// components. Referenced components without binaries contribute their
// compile task instead.
func newCompileTask(registry *Registry, component *Component) (*Task, error) {
	if len(component.SourceSets()) == 0 {
		return nil, nil
	}

	var deps []string

	for _, depName := range component.ComponentDependencies() {
		depComponent, err := registry.ResolveComponent(depName)
		if err != nil {
			return nil, &UnresolvedReferenceError{
				Entity:    fmt.Sprintf("component %q", component.Name),
				Kind:      "component",
				Reference: depName,
			}
		}

		binaries := depComponent.Binaries()
		if len(binaries) == 0 {
			if len(depComponent.SourceSets()) > 0 {
				deps = append(deps, taskID(depComponent.Name, taskNameCompile))
			}

			continue
		}

		for _, binary := range binaries {
			deps = append(deps, binary.TaskID())
		}
	}

	sort.Strings(deps)

	return &Task{
		ID:                   taskID(component.Name, taskNameCompile),
		Name:                 taskNameCompile,
		ComponentName:        component.Name,
		RepositoryRoot:       component.repositoryRootPath,
		Directory:            component.Path,
		Command:              component.CompileCommand(),
		SourceSets:           component.SourceSets(),
		CfgFilepath:          component.CfgFilepath(),
		ExternalDependencies: component.ExternalDependencies(),
		DependsOn:            deps,
	}, nil
}

func newPackageTask(component *Component, binary *Binary, compileTask *Task) *Task {
	var deps []string

	if compileTask != nil {
		deps = append(deps, compileTask.ID)
	}

	return &Task{
		ID:                   binary.TaskID(),
		Name:                 taskNamePackagePrefix + binary.Name,
		ComponentName:        component.Name,
		RepositoryRoot:       component.repositoryRootPath,
		Directory:            component.Path,
		Command:              binary.Command,
		SourceSets:           component.SourceSets(),
		CfgFilepath:          component.CfgFilepath(),
		ExternalDependencies: component.ExternalDependencies(),
		OutputName:           binary.Name,
		OutputPath:           binary.Path,
		DependsOn:            deps,
	}
}

// newTestTask returns the test task of a test-suite component.
// It depends on the package task of the binary under test and on the compile
// task of the suite, if the suite has sources.
func newTestTask(registry *Registry, component *Component, testSuite *TestSuite, compileTask *Task) (*Task, error) {
	entity := fmt.Sprintf("test suite %q", testSuite.Name)

	if _, err := registry.ResolveComponent(testSuite.ComponentName); err != nil {
		return nil, &UnresolvedReferenceError{
			Entity:    entity,
			Kind:      "component",
			Reference: testSuite.ComponentName,
		}
	}

	binaryName := fmt.Sprintf("%s.%s", testSuite.ComponentName, testSuite.BinaryName)

	binary, err := registry.ResolveBinary(binaryName)
	if err != nil {
		return nil, &UnresolvedReferenceError{
			Entity:    entity,
			Kind:      "binary",
			Reference: binaryName,
		}
	}

	deps := []string{binary.TaskID()}
	if compileTask != nil {
		deps = append(deps, compileTask.ID)
	}

	sort.Strings(deps)

	return &Task{
		ID:                   taskID(component.Name, taskNameTest),
		Name:                 taskNameTest,
		ComponentName:        component.Name,
		RepositoryRoot:       component.repositoryRootPath,
		Directory:            component.Path,
		Command:              testSuite.Command,
		SourceSets:           component.SourceSets(),
		CfgFilepath:          component.CfgFilepath(),
		ExternalDependencies: component.ExternalDependencies(),
		DependsOn:            deps,
	}, nil
}

// Task returns the task with the given ID.
func (g *TaskGraph) Task(id string) (*Task, error) {
	task, exist := g.tasks[id]
	if !exist {
		return nil, &NotFoundError{Kind: "task", Name: id}
	}

	return task, nil
}

// Tasks returns all tasks, sorted by ID.
func (g *TaskGraph) Tasks() []*Task {
	result := make([]*Task, 0, len(g.tasks))

	for _, task := range g.tasks {
		result = append(result, task)
	}

	SortTasksByID(result)

	return result
}

// TopologicalOrder returns the task IDs in a deterministic topological
// order. Tasks on the same level are ordered lexicographically.
func (g *TaskGraph) TopologicalOrder() []string {
	result := make([]string, len(g.order))
	copy(result, g.order)

	return result
}

// Dependents returns the IDs of the tasks that directly depend on the task,
// sorted lexicographically.
func (g *TaskGraph) Dependents(id string) ([]string, error) {
	adjacencyMap, err := g.graph.AdjacencyMap()
	if err != nil {
		return nil, err
	}

	edges, exist := adjacencyMap[id]
	if !exist {
		return nil, &NotFoundError{Kind: "task", Name: id}
	}

	result := make([]string, 0, len(edges))
	for dependent := range edges {
		result = append(result, dependent)
	}

	sort.Strings(result)

	return result, nil
}

// Subgraph returns the graph reduced to the given target tasks and all of
// their transitive dependencies.
// If targets is empty the full graph is returned.
func (g *TaskGraph) Subgraph(targets ...string) (*TaskGraph, error) {
	if len(targets) == 0 {
		return g, nil
	}

	include := set.Set[string]{}

	var addAncestors func(id string) error
	addAncestors = func(id string) error {
		if include.Contains(id) {
			return nil
		}

		task, err := g.Task(id)
		if err != nil {
			return err
		}

		include.Add(id)

		for _, dep := range task.DependsOn {
			if err := addAncestors(dep); err != nil {
				return err
			}
		}

		return nil
	}

	for _, target := range targets {
		if err := addAncestors(target); err != nil {
			return nil, err
		}
	}

	tasks := make([]*Task, 0, len(include))
	for id := range include {
		tasks = append(tasks, g.tasks[id])
	}

	return newTaskGraph(tasks)
}
