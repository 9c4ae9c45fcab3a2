package logs

// fileID identifies an inode independent of the path it was opened through.
// The zero value means the identity is unknown.
type fileID struct {
	dev uint64
	ino uint64
}
