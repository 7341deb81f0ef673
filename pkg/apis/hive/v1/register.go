// Package v1 contains the hive.openshift.io/v1 kinds emitted by the generator.
package v1

import (
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// SchemeGroupVersion is group version used to register these objects
var SchemeGroupVersion = schema.GroupVersion{Group: "hive.openshift.io", Version: "v1"}
