package version

// Current defines the application version.
// It defaults to "dev" and is set at release time with
//
//	go build -ldflags "-X github.com/DrSkyle/chronograph/pkg/version.Current=v1.2.3"
var Current = "dev"

// AppName doubles as the otel service name.
const AppName = "chronograph"
