package provisioner

import (
	"context"
	"fmt"
	"log"

	"github.com/beldeveloper/app-promoter/model"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// NewKubernetes creates a new instance of the namespace provisioner.
func NewKubernetes(clientset kubernetes.Interface) Kubernetes {
	return Kubernetes{clientset: clientset}
}

// Kubernetes implements the namespace provisioner against the cluster control plane.
type Kubernetes struct {
	clientset kubernetes.Interface
}

// Ensure creates the namespace if it is absent. Calling it twice with the same
// namespace never fails and never duplicates state.
func (s Kubernetes) Ensure(ctx context.Context, namespace string) error {
	_, err := s.clientset.CoreV1().Namespaces().Get(ctx, namespace, metav1.GetOptions{})
	if err == nil {
		return nil
	}
	if !apierrors.IsNotFound(err) {
		return fmt.Errorf("%w: get namespace %s: %v", model.ErrProvisioning, namespace, err)
	}
	ns := &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: namespace}}
	_, err = s.clientset.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{})
	if err != nil {
		// a concurrent creator is not a failure
		if apierrors.IsAlreadyExists(err) {
			return nil
		}
		return fmt.Errorf("%w: create namespace %s: %v", model.ErrProvisioning, namespace, err)
	}
	log.Printf("The namespace %s is created\n", namespace)
	return nil
}
