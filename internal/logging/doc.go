// Package logging builds the hclog loggers shared by every critic component.
//
// The level comes from CRITIC_LOG_LEVEL when set, otherwise from the
// configuration file, and defaults to INFO. [RestyLogger] adapts a logger
// so resty's request diagnostics end up in the same stream.
package logging
