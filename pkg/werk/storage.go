package werk

import (
	"context"
	"fmt"

	"github.com/werktool/werk/internal/digest"
	"github.com/werktool/werk/internal/digest/sha384"
	"github.com/werktool/werk/internal/fs"
	"github.com/werktool/werk/pkg/storage"
)

// StoreRun stores the result of a task run in a werk storage.
func StoreRun(
	ctx context.Context,
	storer storage.Storer,
	task *Task,
	inputs *Inputs,
	runResult *RunResult,
) (int, error) {
	var result storage.Result
	if runResult.ExitCode == 0 {
		result = storage.ResultSuccess
	} else {
		result = storage.ResultFailure
	}

	totalDigest, err := inputs.Digest()
	if err != nil {
		return NoRunID, err
	}

	storageInputs, err := inputsToStorageInputs(inputs)
	if err != nil {
		return NoRunID, err
	}

	storageOutputs, err := taskOutputs(task)
	if err != nil {
		return NoRunID, err
	}

	tr := storage.TaskRunFull{
		TaskRun: storage.TaskRun{
			ComponentName:    task.ComponentName,
			TaskName:         task.Name,
			StartTimestamp:   runResult.StartTime,
			StopTimestamp:    runResult.StopTime,
			TotalInputDigest: totalDigest.String(),
			Result:           result,
		},
		Inputs:  *storageInputs,
		Outputs: storageOutputs,
	}

	return storer.SaveTaskRun(ctx, &tr)
}

func inputsToStorageInputs(inputs *Inputs) (*storage.Inputs, error) {
	var result storage.Inputs

	for _, in := range inputs.Inputs() {
		inputDigest, err := in.Digest()
		if err != nil {
			return nil, fmt.Errorf("calculating digest of %q failed: %w", in, err)
		}

		switch v := in.(type) {
		case *InputFile:
			result.Files = append(result.Files, &storage.InputFile{
				Path:   v.RelPath(),
				Digest: inputDigest.String(),
			})

		case *InputString:
			result.Strings = append(result.Strings, &storage.InputString{
				String: v.Value(),
				Digest: inputDigest.String(),
			})

		default:
			return nil, fmt.Errorf("unsupported input type %T", v)
		}
	}

	return &result, nil
}

// taskOutputs returns the storage representation of the artifact that the
// task produced.
// An error is returned when the task declares an output but the artifact
// does not exist after the run.
func taskOutputs(task *Task) ([]*storage.Output, error) {
	if !task.HasOutput() {
		return nil, nil
	}

	if !fs.FileExists(task.OutputPath) {
		return nil, fmt.Errorf("task run did not create the declared output %q", task.OutputPath)
	}

	outputDigest, err := fileDigest(task.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("calculating digest of %q failed: %w", task.OutputPath, err)
	}

	size, err := fs.FileSize(task.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("getting size of %q failed: %w", task.OutputPath, err)
	}

	return []*storage.Output{
		{
			Name:      task.OutputName,
			Digest:    outputDigest.String(),
			SizeBytes: uint64(size),
		},
	}, nil
}

func fileDigest(path string) (*digest.Digest, error) {
	sha := sha384.New()

	if err := sha.AddFile(path); err != nil {
		return nil, err
	}

	return sha.Digest(), nil
}
