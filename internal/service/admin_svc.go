package service

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"ecwid_addon_v1_202609/internal/middleware"
	"ecwid_addon_v1_202609/internal/model"
	"ecwid_addon_v1_202609/internal/repository"
)

// ==================== AdminService 运维账号服务 ====================

// AdminService 运维账号服务
// 只服务 /api/stores 这类后台端点的登录态，与商户 OAuth 无关
type AdminService struct {
	AdminRepo repository.AdminRepository
}

// NewAdminService 工厂方法
func NewAdminService(adminRepo repository.AdminRepository) *AdminService {
	return &AdminService{AdminRepo: adminRepo}
}

// LoginResult 登录结果
type LoginResult struct {
	AccessToken  string           `json:"accessToken"`
	RefreshToken string           `json:"refreshToken"`
	ExpiresAt    time.Time        `json:"expiresAt"`
	Admin        *model.AdminUser `json:"admin"`
}

// Login 账号密码登录，签发 Token 对
func (s *AdminService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	admin, err := s.AdminRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrInvalidCredentials
	}
	if !admin.IsActive {
		return nil, ErrAccountDisabled
	}

	if err = bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, refreshToken, err := middleware.GenerateTokenPair(admin.ID, admin.Username, admin.Role)
	if err != nil {
		return nil, err
	}

	_ = s.AdminRepo.UpdateLastLogin(ctx, admin.ID)

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(middleware.GetJWTConfig().AccessTokenTTL),
		Admin:        admin,
	}, nil
}

// RefreshToken 用 Refresh Token 换新 Token 对
func (s *AdminService) RefreshToken(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := middleware.ParseToken(refreshToken)
	if err != nil || claims.Subject != "refresh" {
		return nil, ErrInvalidToken
	}

	// 账号可能在 Token 有效期内被停用
	admin, err := s.AdminRepo.GetByID(ctx, claims.AdminID)
	if err != nil {
		return nil, err
	}
	if admin == nil || !admin.IsActive {
		return nil, ErrAccountDisabled
	}

	accessToken, newRefreshToken, err := middleware.GenerateTokenPair(admin.ID, admin.Username, admin.Role)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresAt:    time.Now().Add(middleware.GetJWTConfig().AccessTokenTTL),
		Admin:        admin,
	}, nil
}

// ChangePassword 修改当前账号密码
func (s *AdminService) ChangePassword(ctx context.Context, adminID int64, oldPassword, newPassword string) error {
	admin, err := s.AdminRepo.GetByID(ctx, adminID)
	if err != nil {
		return err
	}
	if admin == nil {
		return ErrInvalidCredentials
	}

	if err = bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.AdminRepo.UpdatePassword(ctx, adminID, string(hashed))
}

// EnsureBootstrapAdmin 账号表为空时创建初始管理员
// 启动时调用，幂等；password 为空则跳过 (运维自行建号)
func (s *AdminService) EnsureBootstrapAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	count, err := s.AdminRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &model.AdminUser{
		Username: username,
		Password: string(hashed),
		Role:     model.AdminRoleAdmin,
		IsActive: true,
	}
	if err = s.AdminRepo.Create(ctx, admin); err != nil {
		return err
	}

	log.Printf("[Admin] 初始管理员 [%s] 已创建，请尽快修改密码", username)
	return nil
}
