package command

import (
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/werktool/werk/internal/command/term"
	"github.com/werktool/werk/internal/log"
	"github.com/werktool/werk/internal/routines"
	"github.com/werktool/werk/internal/upload/s3"
	"github.com/werktool/werk/pkg/storage"
	"github.com/werktool/werk/pkg/werk"
)

var publishLongHelp = `
Upload the binary artifacts of components to the S3 bucket from the
[Publish] section of the repository configuration.

Artifacts must have been built and their task runs recorded before they can
be published, run 'werk build' first. Uploads are recorded in the database
for the task run that produced the artifact.

The standard AWS environment variables are supported:
    ` + term.Highlight("AWS_REGION") + `
    ` + term.Highlight("AWS_ACCESS_KEY_ID") + `
    ` + term.Highlight("AWS_SECRET_ACCESS_KEY")

type publishCmd struct {
	cobra.Command

	parallelUploads uint
}

func init() {
	rootCmd.AddCommand(&newPublishCmd().Command)
}

func newPublishCmd() *publishCmd {
	cmd := publishCmd{
		Command: cobra.Command{
			Use:   "publish [<COMPONENT-NAME>...]",
			Short: "upload binary artifacts",
			Long:  strings.TrimSpace(publishLongHelp),
			Args:  cobra.ArbitraryArgs,
		},
	}

	cmd.Run = cmd.run

	cmd.Flags().UintVar(&cmd.parallelUploads, "parallel-uploads", 4,
		"number of uploads that are run in parallel")

	return &cmd
}

func (c *publishCmd) run(_ *cobra.Command, args []string) {
	startTime := time.Now()

	repo := mustFindRepository()

	if repo.Cfg.Publish.S3Bucket == "" {
		log.Fatalf("s3_bucket is not set in the [Publish] section of %s", repo.CfgPath)
	}

	registry := mustLoadRegistry(repo)
	components := mustArgsToComponents(registry, args)

	store := mustNewCompatibleStorage(repo)
	defer store.Close()

	s3Client, err := s3.NewClient(ctx, log.StdLogger)
	exitOnErr(err)

	inputResolver := werk.NewInputResolver(repo.Path)
	statusEvaluator := werk.NewTaskStatusEvaluator(store, inputResolver)
	graph := mustBuildGraph(registry)

	pool := routines.NewPool(c.parallelUploads)
	var uploadCount, errorCount uint64

	for _, component := range components {
		uploader := werk.NewUploader(s3Client, repo.Cfg.Publish.S3Bucket,
			strings.ReplaceAll(repo.Cfg.Publish.S3Prefix, "{{ .name }}", component.Name))

		for _, binary := range component.Binaries() {
			task, err := graph.Task(binary.TaskID())
			exitOnErr(err)

			status, _, run, err := statusEvaluator.Status(ctx, task)
			exitOnErr(err)

			if status != werk.TaskStatusRunExist {
				log.Fatalf("no recorded run for task %s matches the current inputs of %q.\n"+
					"Run '%s' first.",
					task.ID, binary, term.Highlight("werk build "+component.Name))
			}

			runID := run.ID

			pool.Queue(func() {
				if err := c.uploadAndRecord(store, uploader, binary, runID); err != nil {
					atomic.AddUint64(&errorCount, 1)
					log.Errorln(err)

					return
				}

				atomic.AddUint64(&uploadCount, 1)
			})
		}
	}

	pool.Wait()

	stdout.PrintSep()
	stdout.Printf("%d artifact(s) uploaded, %d upload(s) failed\n", uploadCount, errorCount)
	stdout.Printf("finished in: %ss\n", term.StrDurationSec(startTime, time.Now()))

	if errorCount > 0 {
		exitFunc(exitCodeError)
	}
}

func (c *publishCmd) uploadAndRecord(store storage.Storer, uploader *werk.Uploader, binary *werk.Binary, runID int) error {
	result, err := uploader.Upload(ctx, binary)
	if err != nil {
		return err
	}

	stdout.Printf("%s: uploaded to %s (%ss)\n",
		term.Highlight(binary), result.URL,
		term.StrDurationSec(result.Start, result.Stop))

	err = store.AddUpload(ctx, runID, binary.Name, result.AsStorageUpload())
	if err != nil {
		return err
	}

	return nil
}

func mustArgsToComponents(registry *werk.Registry, args []string) []*werk.Component {
	if len(args) == 0 {
		return registry.Components()
	}

	components := make([]*werk.Component, 0, len(args))

	for _, arg := range args {
		component, err := registry.ResolveComponent(arg)
		if err != nil {
			var notFound *werk.NotFoundError
			if errors.As(err, &notFound) {
				log.Fatalln(err)
			}

			exitOnErr(err)
		}

		components = append(components, component)
	}

	return components
}

func mustBuildGraph(registry *werk.Registry) *werk.TaskGraph {
	graph, err := werk.BuildGraph(registry)
	exitOnErr(err)

	return graph
}
