package provisioner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func TestEnsureCreatesMissingNamespace(t *testing.T) {
	clientset := fake.NewClientset()
	s := NewKubernetes(clientset)

	err := s.Ensure(context.Background(), "app-dev")
	require.NoError(t, err)

	ns, err := clientset.CoreV1().Namespaces().Get(context.Background(), "app-dev", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "app-dev", ns.Name)
}

func TestEnsureIsIdempotent(t *testing.T) {
	existing := &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "app-staging"}}
	clientset := fake.NewClientset(existing)
	s := NewKubernetes(clientset)

	require.NoError(t, s.Ensure(context.Background(), "app-staging"))
	require.NoError(t, s.Ensure(context.Background(), "app-staging"))

	list, err := clientset.CoreV1().Namespaces().List(context.Background(), metav1.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}
