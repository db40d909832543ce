package projectgraph

import "github.com/BuildModelHQ/keel/sbtstructure"

// selectSdk picks the SDK for a project. Preference order is fixed: an
// Android target version wins, then an explicitly declared JDK home, then
// the caller-supplied default JDK name. The same function serves both the
// whole-project selection (from the root project) and the per-module one.
func selectSdk(p *sbtstructure.ProjectData, defaultJdkName string) SdkRef {
	if p != nil && p.Android != nil && p.Android.TargetVersion != "" {
		return SdkRef{Kind: SdkAndroid, Value: p.Android.TargetVersion}
	}
	if p != nil && p.Java != nil && p.Java.Home != "" {
		return SdkRef{Kind: SdkJdkHome, Value: p.Java.Home}
	}
	return SdkRef{Kind: SdkNamed, Value: defaultJdkName}
}
