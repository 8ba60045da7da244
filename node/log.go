package node

import "github.com/raghaven447/pipewire/cmn/nlog"

func nlogWarnf(format string, args ...any)  { nlog.Warningf(format, args...) }
func nlogErrorf(format string, args ...any) { nlog.Errorf(format, args...) }
