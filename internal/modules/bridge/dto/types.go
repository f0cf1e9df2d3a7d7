package dto

type StatusOutput struct {
	Configured bool
	Name       string
	Version    string
	Binary     string
	Enabled    bool
	Available  bool
	Error      string
}

type DoctorOutput struct {
	Name            string
	ManifestValid   bool
	BinaryReachable bool
	ChecksumValid   bool
	LifecycleOK     bool
	Commands        []string
	Error           string
}

type InvokeInput struct {
	Command  string
	ArgsJSON string
}

type InvokeOutput struct {
	Command    string
	ResultJSON string
}
