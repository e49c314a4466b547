package nav

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// DefaultOpener returns the platform's URL opener.
func DefaultOpener() []string {
	if runtime.GOOS == "darwin" {
		return []string{"open"}
	}
	return []string{"xdg-open"}
}

// Opener hands URLs to an external program. Navigate waits for it to exit;
// OpenInNewContext leaves it running.
type Opener struct {
	Command  []string
	Resolver Resolver

	run   func(ctx context.Context, argv []string) error
	start func(argv []string) error
}

func NewOpener(command []string, resolver Resolver) *Opener {
	if len(command) == 0 {
		command = DefaultOpener()
	}
	return &Opener{
		Command:  append([]string(nil), command...),
		Resolver: resolver,
		run:      runCommand,
		start:    startCommand,
	}
}

func (o *Opener) Navigate(ctx context.Context, path string) error {
	argv, err := o.argv(path)
	if err != nil {
		return err
	}
	if err := o.run(ctx, argv); err != nil {
		return fmt.Errorf("navigate %s: %w", path, err)
	}
	return nil
}

func (o *Opener) OpenInNewContext(path string) error {
	argv, err := o.argv(path)
	if err != nil {
		return err
	}
	if err := o.start(argv); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	return nil
}

func (o *Opener) argv(path string) ([]string, error) {
	target, err := o.Resolver.Resolve(path)
	if err != nil {
		return nil, err
	}
	argv := append([]string(nil), o.Command...)
	return append(argv, target), nil
}

func runCommand(ctx context.Context, argv []string) error {
	return exec.CommandContext(ctx, argv[0], argv[1:]...).Run()
}

func startCommand(argv []string) error {
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
