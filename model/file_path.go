package model

// FilePath wraps the string for defining the paths to files and directories.
type FilePath string

const (
	// EnvironmentsFile defines the name of the file with the environments configuration.
	EnvironmentsFile FilePath = "environments.yml"
	// ChartDir defines the name of the directory that contains the deployment chart.
	ChartDir FilePath = "chart"
	// ChartValuesFile defines the name of the chart values template.
	ChartValuesFile FilePath = "values.yml"
)
