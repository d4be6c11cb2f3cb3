package deployer

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/beldeveloper/app-promoter/model"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/kubernetes"
)

// releaseAnnotation marks the deployment and the service with the release identity.
const releaseAnnotation = "app-promoter/release-id"

// Config carries the cluster-facing settings of the deployer.
type Config struct {
	AppName      string
	Port         int32
	TargetPort   int32
	Replicas     int32
	PullSecret   string
	PollInterval time.Duration
	PollTimeout  time.Duration
}

// NewKubernetes creates a new instance of the Kubernetes deployer.
func NewKubernetes(clientset kubernetes.Interface, cfg Config) Kubernetes {
	if cfg.Replicas <= 0 {
		cfg.Replicas = 1
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = time.Minute
	}
	return Kubernetes{clientset: clientset, cfg: cfg}
}

// Kubernetes implements the deployer against the cluster control plane. The deployment
// is updated in place when it already exists; the service exposure is created once and
// tolerated on re-runs.
type Kubernetes struct {
	clientset kubernetes.Interface
	cfg       Config
}

// Deploy issues a create-or-update deployment request for the artifact in the target
// namespace, exposes it behind a load balancer, and polls for the endpoint assignment
// until the configured deadline.
func (s Kubernetes) Deploy(ctx context.Context, artifact model.ReleaseArtifact, env model.Environment) (model.Deployment, error) {
	rec := model.Deployment{
		Environment: env.Name,
		Namespace:   env.Namespace,
		Image:       artifact.Reference(),
		ReleaseID:   artifact.ReleaseID(),
		Status:      model.DeploymentStatusPending,
		CreatedAt:   time.Now(),
	}
	err := s.upsertDeployment(ctx, artifact, env.Namespace)
	if err != nil {
		rec.Status = model.DeploymentStatusFailed
		rec.Reason = err.Error()
		return rec, err
	}
	err = s.ensureService(ctx, artifact, env.Namespace)
	if err != nil {
		rec.Status = model.DeploymentStatusFailed
		rec.Reason = err.Error()
		return rec, err
	}
	endpoint, err := s.awaitEndpoint(ctx, env.Namespace)
	if err != nil {
		rec.Status = model.DeploymentStatusFailed
		rec.Reason = err.Error()
		return rec, fmt.Errorf("%w: %s in %s: %v", model.ErrDeployTimeout, s.cfg.AppName, env.Namespace, err)
	}
	now := time.Now()
	rec.Status = model.DeploymentStatusReady
	rec.Endpoint = endpoint
	rec.ReadySince = &now
	log.Printf("The release %s is deployed to %s; endpoint %s\n", rec.ReleaseID, env.Name, endpoint)
	return rec, nil
}

func (s Kubernetes) upsertDeployment(ctx context.Context, artifact model.ReleaseArtifact, namespace string) error {
	client := s.clientset.AppsV1().Deployments(namespace)
	existing, err := client.Get(ctx, s.cfg.AppName, metav1.GetOptions{})
	if err != nil {
		if !apierrors.IsNotFound(err) {
			return fmt.Errorf("service.deployer.upsertDeployment: get: %w", err)
		}
		_, err = client.Create(ctx, s.buildDeployment(artifact, namespace), metav1.CreateOptions{})
		if err != nil {
			return fmt.Errorf("service.deployer.upsertDeployment: create: %w", err)
		}
		return nil
	}
	existing.Spec.Template.Spec.Containers[0].Image = artifact.Reference()
	if existing.Annotations == nil {
		existing.Annotations = make(map[string]string)
	}
	existing.Annotations[releaseAnnotation] = artifact.ReleaseID()
	_, err = client.Update(ctx, existing, metav1.UpdateOptions{})
	if err != nil {
		return fmt.Errorf("service.deployer.upsertDeployment: update: %w", err)
	}
	return nil
}

func (s Kubernetes) ensureService(ctx context.Context, artifact model.ReleaseArtifact, namespace string) error {
	client := s.clientset.CoreV1().Services(namespace)
	_, err := client.Get(ctx, s.cfg.AppName, metav1.GetOptions{})
	if err == nil {
		return nil
	}
	if !apierrors.IsNotFound(err) {
		return fmt.Errorf("service.deployer.ensureService: get: %w", err)
	}
	_, err = client.Create(ctx, s.buildService(artifact, namespace), metav1.CreateOptions{})
	if err != nil && !apierrors.IsAlreadyExists(err) {
		return fmt.Errorf("service.deployer.ensureService: create: %w", err)
	}
	return nil
}

// awaitEndpoint polls until the deployment reports ready replicas and the load balancer
// reports an externally reachable address. Cloud load balancers provision asynchronously.
func (s Kubernetes) awaitEndpoint(ctx context.Context, namespace string) (string, error) {
	var endpoint string
	err := wait.PollUntilContextTimeout(ctx, s.cfg.PollInterval, s.cfg.PollTimeout, true, func(ctx context.Context) (bool, error) {
		d, err := s.clientset.AppsV1().Deployments(namespace).Get(ctx, s.cfg.AppName, metav1.GetOptions{})
		if err != nil {
			return false, nil
		}
		if d.Status.ReadyReplicas < s.cfg.Replicas {
			return false, nil
		}
		svc, err := s.clientset.CoreV1().Services(namespace).Get(ctx, s.cfg.AppName, metav1.GetOptions{})
		if err != nil {
			return false, nil
		}
		for _, ing := range svc.Status.LoadBalancer.Ingress {
			host := ing.Hostname
			if host == "" {
				host = ing.IP
			}
			if host != "" {
				endpoint = host + ":" + strconv.Itoa(int(s.cfg.Port))
				return true, nil
			}
		}
		return false, nil
	})
	if err != nil {
		return "", fmt.Errorf("endpoint is not resolved within %s", s.cfg.PollTimeout)
	}
	return endpoint, nil
}

func (s Kubernetes) buildDeployment(artifact model.ReleaseArtifact, namespace string) *appsv1.Deployment {
	replicas := s.cfg.Replicas
	labels := map[string]string{"app": s.cfg.AppName}
	var pullSecrets []corev1.LocalObjectReference
	if s.cfg.PullSecret != "" {
		pullSecrets = append(pullSecrets, corev1.LocalObjectReference{Name: s.cfg.PullSecret})
	}
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:        s.cfg.AppName,
			Namespace:   namespace,
			Labels:      labels,
			Annotations: map[string]string{releaseAnnotation: artifact.ReleaseID()},
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Selector: &metav1.LabelSelector{MatchLabels: labels},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{
						{
							Name:  s.cfg.AppName,
							Image: artifact.Reference(),
							Ports: []corev1.ContainerPort{{ContainerPort: s.cfg.TargetPort}},
						},
					},
					ImagePullSecrets: pullSecrets,
				},
			},
		},
	}
}

func (s Kubernetes) buildService(artifact model.ReleaseArtifact, namespace string) *corev1.Service {
	labels := map[string]string{"app": s.cfg.AppName}
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:        s.cfg.AppName,
			Namespace:   namespace,
			Labels:      labels,
			Annotations: map[string]string{releaseAnnotation: artifact.ReleaseID()},
		},
		Spec: corev1.ServiceSpec{
			Type:     corev1.ServiceTypeLoadBalancer,
			Selector: labels,
			Ports: []corev1.ServicePort{
				{
					Port:       s.cfg.Port,
					TargetPort: intstr.FromInt32(s.cfg.TargetPort),
				},
			},
		},
	}
}
