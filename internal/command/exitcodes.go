package command

const (
	exitCodeSuccess      = 0
	exitCodeError        = 1
	exitCodeAlreadyExist = 2
	exitCodeTaskFailed   = 3
	exitCodeNotExist     = 4
)
