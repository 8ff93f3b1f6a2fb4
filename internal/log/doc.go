// Package log builds the slog loggers used by vncfetch.
//
// Records returned by the VNC resolver routinely include the password that
// unlocked the server. SecureHandler masks such attributes, along with the
// usual credential-bearing keys and values, before they reach any output.
//
// # Usage
//
//	logger, closer, err := log.NewLogger(log.Options{
//	    Writer:   os.Stderr,
//	    Verbose:  true,
//	    FilePath: "vncfetch.log", // optional rotating copy
//	})
//	if err != nil {
//	    return err
//	}
//	defer closer.Close()
//
//	logger.Debug("record", "id", 42, "password", "hunter2") // password=***REDACTED***
package log
