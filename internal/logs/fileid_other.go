//go:build !unix

package logs

import (
	"errors"
	"os"
)

// Replacement detection is skipped where inode numbers are unavailable.

func handleID(*os.File) (fileID, error) { return fileID{}, errors.ErrUnsupported }

func pathID(string) (fileID, error) { return fileID{}, errors.ErrUnsupported }
