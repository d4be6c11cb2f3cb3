package deployer

import (
	"context"
	"testing"
	"time"

	"github.com/beldeveloper/app-promoter/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

var testArtifact = model.ReleaseArtifact{
	Registry: "registry.example.com",
	Image:    "app",
	Tag:      "v2",
	Branch:   "master",
}

var testEnv = model.Environment{Name: "development", Namespace: "app-dev", Gate: model.GatePolicyAutomatic}

func readyDeployment(app, namespace string) *appsv1.Deployment {
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: app, Namespace: namespace},
		Spec: appsv1.DeploymentSpec{
			Template: corev1.PodTemplateSpec{
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{{Name: app, Image: "registry.example.com/app:v1"}},
				},
			},
		},
		Status: appsv1.DeploymentStatus{ReadyReplicas: 1},
	}
}

func exposedService(app, namespace string) *corev1.Service {
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{Name: app, Namespace: namespace},
		Status: corev1.ServiceStatus{
			LoadBalancer: corev1.LoadBalancerStatus{
				Ingress: []corev1.LoadBalancerIngress{{IP: "203.0.113.10"}},
			},
		},
	}
}

func TestDeployUpdatesExistingDeployment(t *testing.T) {
	clientset := fake.NewClientset(readyDeployment("app", "app-dev"), exposedService("app", "app-dev"))
	s := NewKubernetes(clientset, Config{
		AppName:      "app",
		Port:         80,
		TargetPort:   8080,
		PollInterval: time.Millisecond,
		PollTimeout:  time.Second,
	})

	rec, err := s.Deploy(context.Background(), testArtifact, testEnv)
	require.NoError(t, err)

	assert.Equal(t, model.DeploymentStatusReady, rec.Status)
	assert.Equal(t, "203.0.113.10:80", rec.Endpoint)
	assert.Equal(t, testArtifact.ReleaseID(), rec.ReleaseID)
	require.NotNil(t, rec.ReadySince)

	d, err := clientset.AppsV1().Deployments("app-dev").Get(context.Background(), "app", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "registry.example.com/app:v2", d.Spec.Template.Spec.Containers[0].Image)
	assert.Equal(t, testArtifact.ReleaseID(), d.Annotations[releaseAnnotation])
}

func TestDeployCreatesDeploymentAndService(t *testing.T) {
	clientset := fake.NewClientset()
	s := NewKubernetes(clientset, Config{
		AppName:      "app",
		Port:         80,
		TargetPort:   8080,
		PollInterval: time.Millisecond,
		PollTimeout:  50 * time.Millisecond,
	})

	// a fresh deployment never reports ready replicas in the fake cluster,
	// so the attempt fails with a timeout and a failed record
	rec, err := s.Deploy(context.Background(), testArtifact, testEnv)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrDeployTimeout)
	assert.Equal(t, model.DeploymentStatusFailed, rec.Status)
	assert.NotEmpty(t, rec.Reason)

	d, err := clientset.AppsV1().Deployments("app-dev").Get(context.Background(), "app", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "registry.example.com/app:v2", d.Spec.Template.Spec.Containers[0].Image)

	svc, err := clientset.CoreV1().Services("app-dev").Get(context.Background(), "app", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, corev1.ServiceTypeLoadBalancer, svc.Spec.Type)
}

func TestDeployResolvesHostnameEndpoint(t *testing.T) {
	svc := exposedService("app", "app-dev")
	svc.Status.LoadBalancer.Ingress = []corev1.LoadBalancerIngress{{Hostname: "lb.example.com"}}
	clientset := fake.NewClientset(readyDeployment("app", "app-dev"), svc)
	s := NewKubernetes(clientset, Config{
		AppName:      "app",
		Port:         443,
		PollInterval: time.Millisecond,
		PollTimeout:  time.Second,
	})

	rec, err := s.Deploy(context.Background(), testArtifact, testEnv)
	require.NoError(t, err)
	assert.Equal(t, "lb.example.com:443", rec.Endpoint)
}
