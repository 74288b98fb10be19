// Package common holds the pieces shared by every other redisds package:
// the remote server configuration and the logging setup.
//
// Logging goes through the dragonboat logger facade. Packages obtain their
// logger once with logger.GetLogger(name) and InitLoggers installs the
// redisds line format and level for all of them:
//
//	if err := common.InitLoggers("debug"); err != nil {
//	    return err
//	}
package common
