package vos

import "os"

// VIO holds the standard streams. They are real files because children
// inherit them directly as descriptors 0, 1 and 2.
type VIO interface {
	Stdin() *os.File
	Stdout() *os.File
	Stderr() *os.File
}

// NewVIOAdapter creates a VIO from three files.
func NewVIOAdapter(stdin, stdout, stderr *os.File) *VIOAdapter {
	return &VIOAdapter{
		IStdin:  stdin,
		IStdout: stdout,
		IStderr: stderr,
	}
}

type VIOAdapter struct {
	IStdin  *os.File
	IStdout *os.File
	IStderr *os.File
}

var _ VIO = (*VIOAdapter)(nil)

func (pr *VIOAdapter) Stdin() *os.File {
	return pr.IStdin
}

func (pr *VIOAdapter) Stdout() *os.File {
	return pr.IStdout
}

func (pr *VIOAdapter) Stderr() *os.File {
	return pr.IStderr
}

// Files returns the streams in descriptor order for os.ProcAttr.
func Files(vio VIO) []*os.File {
	return []*os.File{vio.Stdin(), vio.Stdout(), vio.Stderr()}
}
