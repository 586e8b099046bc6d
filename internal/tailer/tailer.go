package tailer

import (
	"log"
	"time"

	"github.com/nxadm/tail"
)

// TailFile tails a file and sends lines to the provided channel.
func TailFile(path string, lines chan<- string) {
	t, err := tail.TailFile(path, tail.Config{
		Follow: true,
		ReOpen: true,
		// If file doesn't exist, wait for it to appear
		MustExist: false,
		Poll:      true, // Polling is often safer in Docker mounts
	})
	if err != nil {
		log.Printf("Error tailing file %s: %v", path, err)
		return
	}

	go func() {
		for line := range t.Lines {
			if line.Err != nil {
				log.Printf("Error reading line from %s: %v", path, line.Err)
				continue
			}
			lines <- line.Text
		}
	}()
}

// CollectWindows groups tailed lines into batches for analysis: a window
// is emitted when it reaches size lines or when maxWait elapses with at
// least one buffered line, whichever comes first. Each emitted window is
// analyzed as an independent batch.
func CollectWindows(lines <-chan string, size int, maxWait time.Duration, windows chan<- []string) {
	go func() {
		var buf []string
		timer := time.NewTimer(maxWait)
		defer timer.Stop()

		flush := func() {
			if len(buf) == 0 {
				return
			}
			windows <- buf
			buf = nil
		}

		for {
			select {
			case line, ok := <-lines:
				if !ok {
					flush()
					close(windows)
					return
				}
				buf = append(buf, line)
				if len(buf) >= size {
					flush()
					// Restart the wait so a size flush is not chased by a
					// near-immediate time flush of a tiny window.
					if !timer.Stop() {
						<-timer.C
					}
					timer.Reset(maxWait)
				}
			case <-timer.C:
				flush()
				timer.Reset(maxWait)
			}
		}
	}()
}
