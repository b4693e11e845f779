package geostamp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/geostamp/geostamp/camera"
	"github.com/geostamp/geostamp/export"
	"github.com/geostamp/geostamp/location"
	"github.com/geostamp/geostamp/utils"
	"golang.org/x/term"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// validExtensions lists the source files picked up in directory mode.
var validExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif", ".tif", ".tiff"}

// Ops describes the input and output of a CLI run.
type Ops struct {
	Src, Dst, PipeName string
	Workers            int
}

// result holds the outcome of a single capture.
type result struct {
	path    string
	session Session
	err     error
}

// Execute stamps the source named by op: a file or URL, a whole directory,
// or stdin when Src is the pipe name. Directory mode shares a single fix
// between all files and processes them concurrently.
func (p *Processor) Execute(ctx context.Context, op *Ops) error {
	if p.Spinner == nil {
		p.Spinner = utils.NewSpinner(utils.Banner("⇢ stamping the capture...", utils.DefaultMessage), time.Millisecond*80, true)
	}
	now := time.Now()

	var err error
	switch {
	case op.Src == op.PipeName:
		err = op.pipe(ctx, p)
	case utils.IsValidUrl(op.Src):
		err = op.single(ctx, p, op.Src)
	default:
		var fs os.FileInfo
		fs, err = os.Stat(op.Src)
		if err != nil {
			return fmt.Errorf("failed to load the source image: %w", err)
		}
		if fs.IsDir() {
			err = op.dir(ctx, p)
		} else {
			err = op.single(ctx, p, op.Src)
		}
	}

	if err == nil && op.Dst != op.PipeName {
		fmt.Fprintf(os.Stderr, "\nExecution time: %s\n", utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
	}
	return err
}

// single captures one file or URL.
func (op *Ops) single(ctx context.Context, p *Processor, src string) error {
	p.Spinner.Start()
	s, err := p.Capture(ctx, camera.FileSource{Path: src})
	p.Spinner.StopMsg = stopMsg(err)
	p.Spinner.Stop()

	if s.LocationErr != nil {
		fmt.Fprintln(os.Stderr, utils.Banner(location.StatusMessage(s.LocationErr), utils.DefaultMessage))
	}
	op.printOpStatus(result{path: src, session: s, err: err})
	return err
}

// pipe reads the frame from stdin. It streams the result to stdout or to a
// named image file, or exports it to the sink when Dst is a directory.
func (op *Ops) pipe(ctx context.Context, p *Processor) error {
	if op.Dst != op.PipeName && filepath.Ext(op.Dst) == "" {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("`-` should be used with a pipe for stdin")
		}
		s, err := p.Capture(ctx, camera.ReaderSource{R: os.Stdin})
		op.printOpStatus(result{path: op.Src, session: s, err: err})
		return err
	}

	src, dst, err := op.pathToFile(op.Src, op.Dst)
	if err != nil {
		return err
	}
	if f, ok := dst.(*os.File); ok && f != os.Stdout {
		defer f.Close()
	}
	return p.Process(src, dst)
}

// dir processes every supported image below op.Src with a pool of workers.
func (op *Ops) dir(ctx context.Context, p *Processor) error {
	if op.Workers <= 0 || op.Workers > maxWorkers {
		op.Workers = runtime.NumCPU()
	}

	// one fix for the whole batch
	session := p.Locate(ctx, NewSession())
	if session.Phase == LocationFailed {
		log.Println(utils.Banner(session.Status(), utils.ErrorMessage))
	}

	ch := make(chan result)
	done := make(chan struct{})
	defer close(done)

	paths, errc := walkDir(done, op.Src, validExtensions)

	var wg sync.WaitGroup
	wg.Add(op.Workers)
	for i := 0; i < op.Workers; i++ {
		go func() {
			defer wg.Done()
			op.consumer(ctx, p, session, ch, done, paths)
		}()
	}

	// Close the channel after the values are consumed.
	go func() {
		defer close(ch)
		wg.Wait()
	}()

	p.Spinner.StopMsg = ""
	p.Spinner.Start()
	var failed int
	for res := range ch {
		if res.err != nil {
			failed++
		}
		p.Spinner.Stop()
		op.printOpStatus(res)
		p.Spinner.Start()
	}
	p.Spinner.Stop()

	if err := <-errc; err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d capture(s) failed", failed)
	}
	return nil
}

// consumer reads the path names from the paths channel and stamps each file.
func (op *Ops) consumer(
	ctx context.Context,
	p *Processor,
	session Session,
	res chan<- result,
	done <-chan struct{},
	paths <-chan string,
) {
	for src := range paths {
		s, err := p.Shoot(ctx, session, camera.FileSource{Path: src})

		select {
		case <-done:
			return
		case res <- result{path: src, session: s, err: err}:
		}
	}
}

// pathToFile converts the source and destination paths to readable and writable files.
func (op *Ops) pathToFile(in, out string) (io.Reader, io.Writer, error) {
	var (
		src io.Reader
		dst io.Writer
		err error
	)
	if in == op.PipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdin")
		}
		src = os.Stdin
	} else {
		src, err = os.Open(in)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open the source file: %w", err)
		}
	}

	if out == op.PipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdout")
		}
		dst = os.Stdout
	} else {
		if ext := filepath.Ext(out); !utils.Contains([]string{".jpg", ".jpeg", ".png", ".bmp"}, strings.ToLower(ext)) {
			return nil, nil, fmt.Errorf("%v file type not supported", ext)
		}
		dst, err = os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to create the destination file: %w", err)
		}
	}
	return src, dst, nil
}

// printOpStatus displays the outcome of a capture on stderr.
func (op *Ops) printOpStatus(res result) {
	if res.err != nil {
		fmt.Fprintf(os.Stderr, "\n%s %s\n\tReason: %v\n",
			utils.DecorateText(filepath.Base(res.path), utils.DefaultMessage),
			utils.DecorateText("could not be stamped", utils.ErrorMessage),
			res.err,
		)
		return
	}
	if res.session.Artifact.Location != op.PipeName {
		fmt.Fprintf(os.Stderr, "\nThe capture has been saved as: %s\n",
			utils.DecorateText(res.session.Artifact.Location, utils.SuccessMessage),
		)
	}
}

func stopMsg(err error) string {
	if err != nil {
		return utils.Banner("stamping the capture failed ✘", utils.ErrorMessage)
	}
	return utils.Banner("the capture has been stamped ✔", utils.SuccessMessage)
}

// walkDir starts a new goroutine to walk the specified directory tree
// in recursive manner and sends the path of each supported file to a new channel.
// It finishes in case the done channel is getting closed.
func walkDir(
	done <-chan struct{},
	src string,
	srcExts []string,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !f.Mode().IsRegular() {
				return nil
			}
			if !utils.Contains(srcExts, strings.ToLower(filepath.Ext(f.Name()))) {
				return nil
			}

			select {
			case <-done:
				return errors.New("directory walk cancelled")
			case pathChan <- path:
			}
			return nil
		})
	}()
	return pathChan, errChan
}

// DefaultSink returns the sink for op.Dst: stdout for the pipe name,
// a download directory otherwise.
func (op *Ops) DefaultSink() export.Sink {
	if op.Dst == op.PipeName {
		return export.WriterSink{W: os.Stdout}
	}
	return export.DirSink{Dir: op.Dst}
}
