package annotations

// AddAnnotation returns a map with the given key and value added to the given map.
// An empty key leaves the map untouched, so a nil map stays nil and is omitted
// from the serialized object.
func AddAnnotation(annotations map[string]string, annotationKey, annotationValue string) map[string]string {
	if annotationKey == "" {
		return annotations
	}
	if annotations == nil {
		annotations = make(map[string]string)
	}
	annotations[annotationKey] = annotationValue
	return annotations
}
