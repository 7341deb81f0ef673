package constants

const (
	// LogLevelEnvVar is the environment variable used to set the default log
	// level of the command line tool.
	LogLevelEnvVar = "ACM_CLUSTER_GENERATOR_LOG_LEVEL"

	// DefaultLogLevel is used when neither the flag nor LogLevelEnvVar is set.
	DefaultLogLevel = "info"

	// CloudLabel is the label classifying the infrastructure a cluster runs on.
	CloudLabel = "cloud"

	// VendorLabel is the label classifying the Kubernetes distribution of a cluster.
	VendorLabel = "vendor"

	// NameLabel is the label carrying the name of a managed cluster.
	NameLabel = "name"

	// VendorOpenShift is the VendorLabel value of every generated cluster.
	VendorOpenShift = "OpenShift"

	// SSHPrivateKeySecretKey is the key we use in a Kubernetes Secret containing an SSH private key.
	SSHPrivateKeySecretKey = "ssh-privatekey"

	// InstallConfigSecretKey is the key we use in a Kubernetes Secret containing an install-config.
	InstallConfigSecretKey = "install-config.yaml"

	// PullSecretSuffix, SSHPrivateKeySecretSuffix and InstallConfigSecretSuffix
	// are appended to the cluster name to form the names of the generated secrets.
	PullSecretSuffix          = "pull-secret"
	SSHPrivateKeySecretSuffix = "ssh-private-key"
	InstallConfigSecretSuffix = "install-config"
)
