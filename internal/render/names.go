package render

import "fmt"

// Artifact file names.

func HeatmapName(fieldName string, step int) string {
	return fmt.Sprintf("plot_%s_step%d.png", fieldName, step)
}

func SurfaceName(fieldName string, step int) string {
	return fmt.Sprintf("3d_%s_step%d.png", fieldName, step)
}

func VectorFieldName(step int) string {
	return fmt.Sprintf("vector_field_step%d.png", step)
}

func ProfileName(step int) string {
	return fmt.Sprintf("central_profile_step%d.png", step)
}

const EnergyHistoryName = "energy_history.png"

func ComparisonName(fieldName string) string {
	return fmt.Sprintf("comparison_%s.png", fieldName)
}

func GroupedSurfaceName(fieldName string) string {
	return fmt.Sprintf("surface_3d_%s_grouped_grid.png", fieldName)
}

func AnimationName(fieldName string) string {
	return fmt.Sprintf("animation_%s.gif", fieldName)
}

const FinalName = "final_magnitude_3d.png"
