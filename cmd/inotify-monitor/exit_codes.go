package main

const (
	exitCodeSuccess         = 0
	exitCodeUsage           = 1
	exitCodeInvalidArgument = 2
	exitCodeSubscription    = 3
	exitCodeReporting       = 4
)
